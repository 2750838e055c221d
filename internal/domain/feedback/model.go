package feedback

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrSiteNotFound  = errors.New("site not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Feedback is one widget submission for a site.
type Feedback struct {
	ID         string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	SiteID     string  `gorm:"type:varchar(36);not null;index:idx_feedback_site_created,priority:1" json:"site_id"`
	Rating     int     `gorm:"not null" json:"rating"`
	Comment    *string `json:"comment"`
	URL        *string `gorm:"column:url" json:"url"`
	Browser    *string `json:"browser"`
	Device     *string `json:"device"`
	Country    *string `json:"country"`
	City       *string `json:"city"`
	OS         *string `gorm:"column:os" json:"os"`
	Language   *string `json:"language"`
	Referrer   *string `json:"referrer"`
	TimeOnPage *int    `json:"time_on_page"`
	ScreenSize *string `json:"screen_size"`
	UserAgent  *string `json:"user_agent"`

	CreatedAt time.Time `gorm:"index:idx_feedback_site_created,priority:2" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// MonthStart returns midnight UTC on the first day of now's month.
func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// RetentionCutoff returns the instant before which feedback is older than months.
func RetentionCutoff(now time.Time, months int) time.Time {
	return now.UTC().AddDate(0, -months, 0)
}
