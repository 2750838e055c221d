package access

import (
	"time"

	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
)

// Policy is the resolved entitlement view of one account.
type Policy struct {
	PlanID       string
	Plan         plans.Plan
	Capabilities []string
	Usage        Usage
}

func ComputePolicy(now time.Time, u users.User, usage Usage) Policy {
	p := plans.GetPlan(EffectivePlanID(now, u))
	return Policy{
		PlanID:       p.ID,
		Plan:         p,
		Capabilities: CapabilitiesFor(p),
		Usage:        usage,
	}
}

func (p Policy) Allows(f plans.Feature) bool {
	return plans.HasFeature(p.Plan, f)
}

// CanAddSite evaluates one more site against the plan.
func (p Policy) CanAddSite() Decision {
	return Evaluate(p.PlanID, p.Usage.Sites+1, 0)
}

// CanAcceptFeedback evaluates one more feedback entry this month against the plan.
func (p Policy) CanAcceptFeedback() Decision {
	return Evaluate(p.PlanID, 0, p.Usage.FeedbackThisMonth+1)
}
