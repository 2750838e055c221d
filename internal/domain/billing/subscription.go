package billing

import (
	"errors"
	"fmt"
	"time"

	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Subscription mirrors a Stripe subscription for one account.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"-"`
	UserID               string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	StripeSubscriptionID string     `gorm:"not null;uniqueIndex" json:"stripe_subscription_id"`
	StripeCustomerID     string     `gorm:"not null;index" json:"stripe_customer_id"`
	PlanID               string     `gorm:"type:varchar(20);not null" json:"plan_id"`
	Status               string     `gorm:"type:varchar(30);not null" json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	CancelAtPeriodEnd    bool       `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CanceledAt           *time.Time `json:"canceled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the subscription currently grants its plan.
func (s Subscription) IsActive() bool {
	return s.Status == "active" || s.Status == "trialing"
}

var ErrUnknownPlan = errors.New("unknown plan")

// SaveSubscription upserts the mirror row by Stripe id and copies plan,
// status and period end onto the owning profile, in one transaction.
func SaveSubscription(db *gorm.DB, s Subscription) error {
	if !plans.IsKnown(s.PlanID) {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, s.PlanID)
	}
	if s.UserID == "" || s.StripeSubscriptionID == "" {
		return errors.New("subscription requires user and stripe subscription id")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_subscription_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "stripe_customer_id", "plan_id", "status",
				"current_period_start", "current_period_end",
				"cancel_at_period_end", "canceled_at", "updated_at",
			}),
		}).Create(&s).Error
		if err != nil {
			return fmt.Errorf("upsert subscription: %w", err)
		}

		updates := map[string]interface{}{
			"plan":                s.PlanID,
			"subscription_status": s.Status,
			"current_period_end":  s.CurrentPeriodEnd,
		}
		if s.StripeCustomerID != "" {
			updates["stripe_customer_id"] = s.StripeCustomerID
		}
		res := tx.Model(&users.User{}).Where("id = ?", s.UserID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update profile: %w", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// DowngradeToFree resets a profile after its subscription ended.
func DowngradeToFree(db *gorm.DB, userID string) error {
	return db.Model(&users.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"plan":                plans.Free,
			"subscription_status": "inactive",
		}).Error
}

// LatestForUser returns the most recently updated subscription row for the account.
func LatestForUser(db *gorm.DB, userID string) (*Subscription, error) {
	var s Subscription
	err := db.Where("user_id = ?", userID).Order("updated_at DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
