package stripe

import "strings"

// NormalizeStripeStatus folds Stripe subscription statuses into the set the
// entitlement layer reasons about.
func NormalizeStripeStatus(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "none"
	case "active", "trialing":
		return s
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return s
	}
}

// IsActiveStatus reports whether the subscription grants its paid plan right now.
func IsActiveStatus(s string) bool {
	switch NormalizeStripeStatus(s) {
	case "active", "trialing":
		return true
	}
	return false
}
