package admin

import (
	"errors"
	"net/http"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	CompanyName        string     `json:"company_name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	IsVerified         bool       `json:"is_verified"`
	Plan               string     `json:"plan"`
	EffectivePlan      string     `json:"effective_plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	StripeCustomerID   *string    `json:"stripe_customer_id,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers          int            `json:"total_users"`
	TotalSites          int64          `json:"total_sites"`
	TotalFeedback       int64          `json:"total_feedback"`
	FeedbackThisMonth   int64          `json:"feedback_this_month"`
	ActiveSubscriptions int64          `json:"active_subscriptions"`
	UsersPerPlan        map[string]int `json:"users_per_plan"`
}

func toAdminUser(now time.Time, u users.User) AdminUser {
	return AdminUser{
		ID:                 u.ID,
		Name:               u.Name,
		CompanyName:        u.CompanyName,
		Email:              u.Email,
		Role:               u.Role,
		IsVerified:         u.IsVerified,
		Plan:               u.Plan,
		EffectivePlan:      access.EffectivePlanID(now, u),
		SubscriptionStatus: u.SubscriptionStatus,
		StripeCustomerID:   u.StripeCustomerID,
		CurrentPeriodEnd:   u.CurrentPeriodEnd,
		CreatedAt:          u.CreatedAt,
	}
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.WithContext(c.Request.Context()).Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	now := time.Now()
	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		out = append(out, toAdminUser(now, u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/subscriptions
func ListAllSubscriptions(c *gin.Context) {
	subs := []billing.Subscription{}
	if err := database.DB.WithContext(c.Request.Context()).Order("updated_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GET /admin/stats
func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	now := time.Now()

	var all []users.User
	if err := db.Select("id", "plan", "subscription_status", "current_period_end").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	stats := AdminStats{
		TotalUsers:   len(all),
		UsersPerPlan: map[string]int{},
	}
	for _, id := range []string{plans.Free, plans.Pro, plans.Business, plans.Enterprise} {
		stats.UsersPerPlan[id] = 0
	}
	for _, u := range all {
		stats.UsersPerPlan[access.EffectivePlanID(now, u)]++
	}

	err := errors.Join(
		db.Model(&site.Site{}).Count(&stats.TotalSites).Error,
		db.Model(&feedback.Feedback{}).Count(&stats.TotalFeedback).Error,
		db.Model(&feedback.Feedback{}).Where("created_at >= ?", feedback.MonthStart(now)).Count(&stats.FeedbackThisMonth).Error,
		db.Model(&billing.Subscription{}).Where("status IN ?", []string{"active", "trialing"}).Count(&stats.ActiveSubscriptions).Error,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GET /admin/user/:id
func GetUserDetails(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	userID := c.Param("id")

	var user users.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	sites, err := site.ListForUser(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sites"})
		return
	}
	subs := []billing.Subscription{}
	if err := db.Where("user_id = ?", user.ID).Order("updated_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          toAdminUser(time.Now(), user),
		"sites":         sites,
		"subscriptions": subs,
	})
}
