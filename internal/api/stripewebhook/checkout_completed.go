package stripewebhooks

import (
	"context"
	"fmt"

	"quickfeedback/internal/domain/billing"
	qstripe "quickfeedback/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return skip("checkout session %s has no subscription", session.ID)
	}
	if session.Customer == nil || session.Customer.ID == "" {
		return skip("checkout session %s has no customer", session.ID)
	}

	g, err := qstripe.Get()
	if err != nil {
		return err
	}
	sub, err := g.GetSubscription(ctx, session.Subscription.ID)
	if err != nil {
		return fmt.Errorf("retrieve subscription %s: %w", session.Subscription.ID, err)
	}

	planID := session.Metadata[metaPlanID]
	if !paidPlan(planID) {
		var ok bool
		if planID, ok = planForPrice(sub); !ok {
			return skip("no plan for checkout session %s", session.ID)
		}
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = session.Metadata[metaUserID]
	}
	if userID == "" {
		userID = customerUserID(ctx, session.Customer)
	}
	if userID == "" {
		return skip("no user for checkout session %s", session.ID)
	}

	db := dbFrom(ctx)
	ok, err := userExists(db, userID)
	if err != nil {
		return err
	}
	if !ok {
		return skip("user %s not found", userID)
	}

	mirror := qstripe.ToSubscription(sub, userID, planID)
	if mirror.StripeCustomerID == "" {
		mirror.StripeCustomerID = session.Customer.ID
	}
	return billing.SaveSubscription(db, mirror)
}
