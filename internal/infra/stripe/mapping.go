package stripe

import (
	"time"

	"quickfeedback/internal/domain/billing"

	gostripe "github.com/stripe/stripe-go/v75"
)

// PriceID returns the price of the first subscription item.
func PriceID(sub *gostripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

func CustomerID(sub *gostripe.Subscription) string {
	if sub == nil || sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}

// ToSubscription converts a Stripe subscription into the local mirror row.
func ToSubscription(sub *gostripe.Subscription, userID, planID string) billing.Subscription {
	return billing.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     CustomerID(sub),
		PlanID:               planID,
		Status:               string(sub.Status),
		CurrentPeriodStart:   unixPtr(sub.CurrentPeriodStart),
		CurrentPeriodEnd:     unixPtr(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CanceledAt:           unixPtr(sub.CanceledAt),
	}
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
