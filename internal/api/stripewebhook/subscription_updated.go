package stripewebhooks

import (
	"context"

	"quickfeedback/internal/domain/billing"
	qstripe "quickfeedback/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func handleSubscriptionUpdated(ctx context.Context, sub *stripe.Subscription) error {
	db := dbFrom(ctx)

	userID, err := userIDForSubscription(ctx, db, sub)
	if err != nil {
		return err
	}
	if userID == "" {
		return skip("no user for subscription %s", sub.ID)
	}

	planID, ok := planForPrice(sub)
	if !ok {
		existing, err := existingMirror(db, sub.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return skip("no plan for subscription %s", sub.ID)
		}
		planID = existing.PlanID
	}

	exists, err := userExists(db, userID)
	if err != nil {
		return err
	}
	if !exists {
		return skip("user %s not found", userID)
	}

	return billing.SaveSubscription(db, qstripe.ToSubscription(sub, userID, planID))
}
