package access

import (
	"time"

	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/infra/stripe"
)

// EffectivePlanID is the plan limits are evaluated against. A canceled
// subscription keeps its plan until the paid-through period ends.
func EffectivePlanID(now time.Time, u users.User) string {
	planID := plans.GetPlan(u.Plan).ID

	switch stripe.NormalizeStripeStatus(u.SubscriptionStatus) {
	case "canceled":
		if u.CurrentPeriodEnd != nil && now.Before(*u.CurrentPeriodEnd) {
			return planID
		}
		return plans.Free
	default:
		return planID
	}
}
