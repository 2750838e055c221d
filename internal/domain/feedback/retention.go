package feedback

import (
	"context"
	"fmt"
	"time"

	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"

	"gorm.io/gorm"
)

const pruneBatch = 200

// PruneExpired deletes feedback older than each account's plan storage
// period and returns the number of rows removed.
func PruneExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var total int64
	var batch []users.User

	err := db.WithContext(ctx).Model(&users.User{}).FindInBatches(&batch, pruneBatch, func(tx *gorm.DB, _ int) error {
		for _, u := range batch {
			months := plans.GetPlan(access.EffectivePlanID(now, u)).StorageMonths
			res := db.WithContext(ctx).
				Where("site_id IN (?) AND created_at < ?", ownedSiteIDs(db, u.ID), RetentionCutoff(now, months)).
				Delete(&Feedback{})
			if res.Error != nil {
				return fmt.Errorf("prune feedback for %s: %w", u.ID, res.Error)
			}
			total += res.RowsAffected
		}
		return nil
	}).Error

	return total, err
}
