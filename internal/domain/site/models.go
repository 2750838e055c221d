package site

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site is a website that embeds the feedback widget.
type Site struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	URL    string `gorm:"not null" json:"url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
