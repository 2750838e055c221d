// Package usage counts account activity against plan limits.
package usage

import (
	"context"
	"fmt"
	"time"

	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/site"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Load counts the account's sites and the feedback received since the start
// of now's UTC month. The two counts run concurrently.
func Load(ctx context.Context, db *gorm.DB, userID string, now time.Time) (access.Usage, error) {
	var sites, fb int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := site.CountForUser(db.WithContext(gctx), userID)
		if err != nil {
			return fmt.Errorf("count sites: %w", err)
		}
		sites = n
		return nil
	})
	g.Go(func() error {
		n, err := feedback.CountForOwnerSince(db.WithContext(gctx), userID, feedback.MonthStart(now))
		if err != nil {
			return fmt.Errorf("count feedback: %w", err)
		}
		fb = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return access.Usage{}, err
	}
	return access.Usage{Sites: int(sites), FeedbackThisMonth: int(fb)}, nil
}
