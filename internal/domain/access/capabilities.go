package access

import (
	"quickfeedback/internal/domain/plans"
)

// CapabilitiesFor lists the included feature names of a plan.
func CapabilitiesFor(p plans.Plan) []string {
	out := make([]string, 0, len(p.Features))
	for _, g := range p.Features {
		if g.Included {
			out = append(out, string(g.Feature))
		}
	}
	return out
}
