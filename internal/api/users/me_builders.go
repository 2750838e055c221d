package usersapi

import (
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/infra/stripe"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		CompanyName:        u.CompanyName,
		Website:            u.Website,
		EmailNotifications: u.EmailNotifications,
		Role:               u.Role,
		IsVerified:         u.IsVerified,
		AuthProvider:       u.AuthProvider,
	}
}

func BuildBillingDTO(u users.User) BillingDTO {
	return BillingDTO{
		Plan:               u.Plan,
		SubscriptionStatus: stripe.NormalizeStripeStatus(u.SubscriptionStatus),
		CurrentPeriodEnd:   u.CurrentPeriodEnd,
		IsActive:           stripe.IsActiveStatus(u.SubscriptionStatus),
		HasCustomer:        u.StripeCustomerID != nil && *u.StripeCustomerID != "",
	}
}

func BuildAccessDTO(p access.Policy) AccessDTO {
	return AccessDTO{
		Plan:              p.Plan,
		Capabilities:      p.Capabilities,
		Usage:             p.Usage,
		CanAddSite:        p.CanAddSite().Allowed,
		CanAcceptFeedback: p.CanAcceptFeedback().Allowed,
	}
}
