package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is an account and its billing profile.
type User struct {
	ID           string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsVerified   bool    `json:"is_verified"`

	Name               string `json:"name"`
	CompanyName        string `json:"company_name"`
	Website            string `json:"website"`
	EmailNotifications bool   `gorm:"not null;default:true" json:"email_notifications"`

	Plan               string     `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	SubscriptionStatus string     `gorm:"type:varchar(30);not null;default:'inactive'" json:"subscription_status"`
	StripeCustomerID   *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"-"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"current_period_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Plan == "" {
		u.Plan = "free"
	}
	if u.SubscriptionStatus == "" {
		u.SubscriptionStatus = "inactive"
	}
	return nil
}
