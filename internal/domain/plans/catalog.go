package plans

// Plan ids, in display order.
const (
	Free       = "free"
	Pro        = "pro"
	Business   = "business"
	Enterprise = "enterprise"
)

// Unlimited marks a site or feedback limit that is never enforced.
const Unlimited = -1

type Feature string

const (
	FeatureFeedbackCollection  Feature = "Feedback Collection"
	FeatureBasicAnalytics      Feature = "Basic Analytics"
	FeatureAdvancedAnalytics   Feature = "Advanced Analytics"
	FeaturePremiumAnalytics    Feature = "Premium Analytics"
	FeatureEnterpriseAnalytics Feature = "Enterprise Analytics"
	FeatureSites               Feature = "Sites"
	FeatureFeedbackStorage     Feature = "Feedback Storage"
	FeatureFeedbackLimit       Feature = "Feedback Limit"
	FeatureCustomBranding      Feature = "Custom Branding"
	FeatureDataExport          Feature = "Data Export"
	FeaturePrioritySupport     Feature = "Priority Support"
	FeatureTeamAccess          Feature = "Team Access"
	FeatureAPIAccess           Feature = "API Access"
	FeatureCustomIntegrations  Feature = "Custom Integrations"
)

type FeatureGrant struct {
	Feature     Feature `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Included    bool    `json:"included" yaml:"included"`
	Limit       *int    `json:"limit,omitempty" yaml:"limit,omitempty"`
}

type Plan struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description" yaml:"description"`
	PriceUSD      int            `json:"price" yaml:"price"`
	SiteLimit     int            `json:"siteLimit" yaml:"site_limit"`
	FeedbackLimit int            `json:"feedbackLimit" yaml:"feedback_limit"`
	StorageMonths int            `json:"storageMonths" yaml:"storage_months"`
	Features      []FeatureGrant `json:"features" yaml:"features"`
}

func (p Plan) IsPaid() bool {
	return p.PriceUSD > 0
}

func limit(n int) *int { return &n }

var order = []string{Free, Pro, Business, Enterprise}

var catalog = map[string]Plan{
	Free: {
		ID:            Free,
		Name:          "Free",
		Description:   "Get started with basic feedback collection",
		PriceUSD:      0,
		SiteLimit:     1,
		FeedbackLimit: 100,
		StorageMonths: 1,
		Features: []FeatureGrant{
			{FeatureFeedbackCollection, "Collect user feedback", true, nil},
			{FeatureBasicAnalytics, "View basic feedback statistics", true, nil},
			{FeatureSites, "Number of sites you can add", true, limit(1)},
			{FeatureFeedbackStorage, "Store feedback for 1 month", true, limit(1)},
			{FeatureFeedbackLimit, "Monthly feedback entries", true, limit(100)},
		},
	},
	Pro: {
		ID:            Pro,
		Name:          "Pro",
		Description:   "For professionals and small businesses",
		PriceUSD:      19,
		SiteLimit:     5,
		FeedbackLimit: 5000,
		StorageMonths: 6,
		Features: []FeatureGrant{
			{FeatureFeedbackCollection, "Collect user feedback", true, nil},
			{FeatureAdvancedAnalytics, "Detailed analytics with exports", true, nil},
			{FeatureSites, "Number of sites you can add", true, limit(5)},
			{FeatureFeedbackStorage, "Store feedback for 6 months", true, limit(6)},
			{FeatureFeedbackLimit, "Monthly feedback entries", true, limit(5000)},
			{FeatureCustomBranding, "Replace QuickFeedback branding", true, nil},
			{FeatureDataExport, "Export feedback as CSV", true, nil},
		},
	},
	Business: {
		ID:            Business,
		Name:          "Business",
		Description:   "For growing businesses with multiple sites",
		PriceUSD:      49,
		SiteLimit:     20,
		FeedbackLimit: 20000,
		StorageMonths: 12,
		Features: []FeatureGrant{
			{FeatureFeedbackCollection, "Collect user feedback", true, nil},
			{FeaturePremiumAnalytics, "Full analytics suite with exports", true, nil},
			{FeatureSites, "Number of sites you can add", true, limit(20)},
			{FeatureFeedbackStorage, "Store feedback for 12 months", true, limit(12)},
			{FeatureFeedbackLimit, "Monthly feedback entries", true, limit(20000)},
			{FeatureCustomBranding, "Replace QuickFeedback branding", true, nil},
			{FeatureDataExport, "Export feedback as CSV/JSON", true, nil},
			{FeaturePrioritySupport, "24/7 priority support", true, nil},
			{FeatureTeamAccess, "Multiple team members", true, nil},
		},
	},
	Enterprise: {
		ID:            Enterprise,
		Name:          "Enterprise",
		Description:   "For large organizations with custom needs",
		PriceUSD:      149,
		SiteLimit:     Unlimited,
		FeedbackLimit: Unlimited,
		StorageMonths: 24,
		Features: []FeatureGrant{
			{FeatureFeedbackCollection, "Collect user feedback", true, nil},
			{FeatureEnterpriseAnalytics, "Full analytics with API access", true, nil},
			{FeatureSites, "Unlimited sites", true, nil},
			{FeatureFeedbackStorage, "Store feedback for 24 months", true, limit(24)},
			{FeatureFeedbackLimit, "Unlimited feedback entries", true, nil},
			{FeatureCustomBranding, "Replace QuickFeedback branding", true, nil},
			{FeatureDataExport, "Export in any format", true, nil},
			{FeaturePrioritySupport, "24/7 dedicated support", true, nil},
			{FeatureTeamAccess, "Unlimited team members", true, nil},
			{FeatureAPIAccess, "Full API access", true, nil},
			{FeatureCustomIntegrations, "Custom integrations", true, nil},
		},
	},
}

// Lookup returns the plan registered under id and whether it exists.
func Lookup(id string) (Plan, bool) {
	p, ok := catalog[id]
	if !ok {
		return Plan{}, false
	}
	return clonePlan(p), true
}

// GetPlan resolves id to a plan. Unknown ids resolve to the Free plan.
func GetPlan(id string) Plan {
	if p, ok := Lookup(id); ok {
		return p
	}
	return clonePlan(catalog[Free])
}

// All returns every plan in display order.
func All() []Plan {
	out := make([]Plan, 0, len(order))
	for _, id := range order {
		out = append(out, clonePlan(catalog[id]))
	}
	return out
}

func IsKnown(id string) bool {
	_, ok := catalog[id]
	return ok
}

// HasFeature reports whether the plan lists the feature as included.
func HasFeature(p Plan, f Feature) bool {
	for _, g := range p.Features {
		if g.Feature == f {
			return g.Included
		}
	}
	return false
}

func clonePlan(p Plan) Plan {
	features := make([]FeatureGrant, len(p.Features))
	for i, g := range p.Features {
		if g.Limit != nil {
			g.Limit = limit(*g.Limit)
		}
		features[i] = g
	}
	p.Features = features
	return p
}
