package stripewebhooks

import (
	"context"
	"time"

	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/plans"
	qstripe "quickfeedback/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	db := dbFrom(ctx)

	existing, err := existingMirror(db, sub.ID)
	if err != nil {
		return err
	}

	userID, err := userIDForSubscription(ctx, db, sub)
	if err != nil {
		return err
	}
	if userID == "" && existing != nil {
		userID = existing.UserID
	}
	if userID == "" {
		return skip("no user for subscription %s", sub.ID)
	}

	planID, ok := planForPrice(sub)
	switch {
	case ok:
	case existing != nil:
		planID = existing.PlanID
	default:
		planID = plans.Free
	}

	exists, err := userExists(db, userID)
	if err != nil {
		return err
	}
	if !exists {
		return skip("user %s not found", userID)
	}

	mirror := qstripe.ToSubscription(sub, userID, planID)
	mirror.Status = string(stripe.SubscriptionStatusCanceled)
	if mirror.StripeCustomerID == "" && existing != nil {
		mirror.StripeCustomerID = existing.StripeCustomerID
	}
	if mirror.CanceledAt == nil {
		now := time.Now().UTC()
		mirror.CanceledAt = &now
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := billing.SaveSubscription(tx, mirror); err != nil {
			return err
		}
		return billing.DowngradeToFree(tx, userID)
	})
}
