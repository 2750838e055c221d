package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestComputeAnalytics_Empty(t *testing.T) {
	a := ComputeAnalytics(nil, time.Now())
	assert.Equal(t, 0, a.Total)
	assert.Equal(t, 0.0, a.AverageRating)
	assert.Equal(t, 0.0, a.AverageTimeOnPage)
	assert.NotNil(t, a.RatingsDistribution)
	assert.Empty(t, a.CountriesDistribution)
}

func TestComputeAnalytics(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	items := []Feedback{
		{Rating: 5, Country: strp("DE"), Device: strp("desktop"), Browser: strp("Firefox"), TimeOnPage: intp(30), CreatedAt: now.Add(-time.Hour)},
		{Rating: 4, Country: strp("DE"), Device: strp("mobile"), Browser: strp("Chrome"), TimeOnPage: intp(90), CreatedAt: now.Add(-6 * 24 * time.Hour)},
		{Rating: 1, Country: strp(""), Device: nil, Browser: strp("Chrome"), CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{Rating: 5, Country: strp("FR"), CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}

	a := ComputeAnalytics(items, now)

	assert.Equal(t, 4, a.Total)
	assert.InDelta(t, 3.75, a.AverageRating, 1e-9)
	assert.Equal(t, 2, a.RecentCount)
	assert.Equal(t, map[int]int{5: 2, 4: 1, 1: 1}, a.RatingsDistribution)
	assert.Equal(t, map[string]int{"DE": 2, "FR": 1}, a.CountriesDistribution)
	assert.Equal(t, map[string]int{"desktop": 1, "mobile": 1}, a.DevicesDistribution)
	assert.Equal(t, map[string]int{"Firefox": 1, "Chrome": 2}, a.BrowsersDistribution)
	assert.InDelta(t, 30.0, a.AverageTimeOnPage, 1e-9)
}

func TestMonthStart(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	got := MonthStart(time.Date(2026, 4, 1, 0, 30, 0, 0, berlin))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got = MonthStart(time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC), RetentionCutoff(now, 6))
	assert.Equal(t, time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC), RetentionCutoff(now, 24))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
}
