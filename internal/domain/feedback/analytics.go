package feedback

import "time"

// RecentWindow bounds the RecentCount statistic.
const RecentWindow = 7 * 24 * time.Hour

type Analytics struct {
	Total                 int            `json:"total"`
	AverageRating         float64        `json:"averageRating"`
	RecentCount           int            `json:"recentCount"`
	RatingsDistribution   map[int]int    `json:"ratingsDistribution"`
	CountriesDistribution map[string]int `json:"countriesDistribution"`
	DevicesDistribution   map[string]int `json:"devicesDistribution"`
	BrowsersDistribution  map[string]int `json:"browsersDistribution"`
	AverageTimeOnPage     float64        `json:"averageTimeOnPage"`
}

func ComputeAnalytics(items []Feedback, now time.Time) Analytics {
	a := Analytics{
		RatingsDistribution:   map[int]int{},
		CountriesDistribution: map[string]int{},
		DevicesDistribution:   map[string]int{},
		BrowsersDistribution:  map[string]int{},
	}
	if len(items) == 0 {
		return a
	}

	var ratingSum, timeSum int
	recentSince := now.Add(-RecentWindow)
	for _, f := range items {
		ratingSum += f.Rating
		a.RatingsDistribution[f.Rating]++
		countInto(a.CountriesDistribution, f.Country)
		countInto(a.DevicesDistribution, f.Device)
		countInto(a.BrowsersDistribution, f.Browser)
		if f.TimeOnPage != nil {
			timeSum += *f.TimeOnPage
		}
		if !f.CreatedAt.Before(recentSince) {
			a.RecentCount++
		}
	}

	a.Total = len(items)
	a.AverageRating = float64(ratingSum) / float64(a.Total)
	a.AverageTimeOnPage = float64(timeSum) / float64(a.Total)
	return a
}

func countInto(m map[string]int, v *string) {
	if v != nil && *v != "" {
		m[*v]++
	}
}
