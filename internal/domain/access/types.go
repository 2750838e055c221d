package access

// Limit names the plan limit a denied Decision tripped.
type Limit string

const (
	LimitNone     Limit = ""
	LimitSites    Limit = "sites"
	LimitFeedback Limit = "feedback"
)

type Decision struct {
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
	Exceeded Limit  `json:"-"`
}

// Usage is the account activity counted against plan limits.
type Usage struct {
	Sites             int `json:"sites"`
	FeedbackThisMonth int `json:"feedbackThisMonth"`
}
