package usersapi

import (
	"time"

	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/plans"
)

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	CompanyName        string `json:"company_name"`
	Website            string `json:"website"`
	EmailNotifications bool   `json:"email_notifications"`
	Role               string `json:"role"`
	IsVerified         bool   `json:"is_verified"`
	AuthProvider       string `json:"auth_provider"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	// Plan is the stored plan; Access.Plan is what limits are evaluated against.
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	IsActive           bool       `json:"is_active"`
	HasCustomer        bool       `json:"has_customer"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	Plan         plans.Plan   `json:"plan"`
	Capabilities []string     `json:"capabilities"`
	Usage        access.Usage `json:"usage"`
	CanAddSite   bool         `json:"can_add_site"`
	// CanAcceptFeedback is false once this month's feedback allowance is used up.
	CanAcceptFeedback bool `json:"can_accept_feedback"`
}

type UpdateMeRequest struct {
	Name               *string `json:"name" binding:"omitempty,max=200"`
	CompanyName        *string `json:"company_name" binding:"omitempty,max=200"`
	Website            *string `json:"website" binding:"omitempty,max=500"`
	EmailNotifications *bool   `json:"email_notifications"`
}
