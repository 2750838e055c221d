package access

import (
	"fmt"

	"quickfeedback/internal/domain/plans"
)

// Evaluate checks prospective counts against the plan's limits. Callers pass
// the count as it would be after the pending action (current + 1). The site
// limit is checked first and the first violation wins.
func Evaluate(planID string, siteCount, feedbackCount int) Decision {
	p := plans.GetPlan(planID)

	if p.SiteLimit != plans.Unlimited && siteCount > p.SiteLimit {
		return Decision{
			Allowed:  false,
			Reason:   fmt.Sprintf("Your %s plan allows up to %d sites. Please upgrade to add more sites.", p.Name, p.SiteLimit),
			Exceeded: LimitSites,
		}
	}

	if p.FeedbackLimit != plans.Unlimited && feedbackCount > p.FeedbackLimit {
		return Decision{
			Allowed:  false,
			Reason:   fmt.Sprintf("Your %s plan allows up to %d feedback entries per month. Please upgrade for more.", p.Name, p.FeedbackLimit),
			Exceeded: LimitFeedback,
		}
	}

	return Decision{Allowed: true}
}
