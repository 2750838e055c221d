package feedbackapi

import (
	"quickfeedback/internal/domain/feedback"
)

type SubmitRequest struct {
	SiteID     string  `json:"siteId" binding:"required"`
	Rating     *int    `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
	URL        *string `json:"url"`
	Browser    *string `json:"browser"`
	Device     *string `json:"device"`
	Country    *string `json:"country"`
	City       *string `json:"city"`
	OS         *string `json:"os"`
	Language   *string `json:"language"`
	Referrer   *string `json:"referrer"`
	TimeOnPage *int    `json:"time_on_page" binding:"omitempty,min=0"`
	ScreenSize *string `json:"screen_size"`
	UserAgent  *string `json:"user_agent"`
}

func (r SubmitRequest) toModel(siteID string) feedback.Feedback {
	return feedback.Feedback{
		SiteID:     siteID,
		Rating:     *r.Rating,
		Comment:    nonEmpty(r.Comment),
		URL:        nonEmpty(r.URL),
		Browser:    nonEmpty(r.Browser),
		Device:     nonEmpty(r.Device),
		Country:    nonEmpty(r.Country),
		City:       nonEmpty(r.City),
		OS:         nonEmpty(r.OS),
		Language:   nonEmpty(r.Language),
		Referrer:   nonEmpty(r.Referrer),
		TimeOnPage: r.TimeOnPage,
		ScreenSize: nonEmpty(r.ScreenSize),
		UserAgent:  nonEmpty(r.UserAgent),
	}
}

type ListWithAnalyticsResponse struct {
	Feedback  []feedback.Feedback `json:"feedback"`
	Analytics feedback.Analytics  `json:"analytics"`
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
