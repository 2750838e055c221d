package stripewebhooks

import (
	"context"
	"errors"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
	qstripe "quickfeedback/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

const metaUserID = "userId"
const metaPlanID = "planId"

// customerUserID reads the userId metadata of a customer, fetching it when the
// event only carried its id.
func customerUserID(ctx context.Context, cus *stripe.Customer) string {
	if cus == nil || cus.ID == "" {
		return ""
	}
	if id := cus.Metadata[metaUserID]; id != "" {
		return id
	}
	g, err := qstripe.Get()
	if err != nil {
		return ""
	}
	full, err := g.GetCustomer(ctx, cus.ID)
	if err != nil || full == nil {
		return ""
	}
	return full.Metadata[metaUserID]
}

// userIDForSubscription looks at subscription metadata, then customer
// metadata, then the account that stores the customer id.
func userIDForSubscription(ctx context.Context, db *gorm.DB, sub *stripe.Subscription) (string, error) {
	if id := sub.Metadata[metaUserID]; id != "" {
		return id, nil
	}
	if id := customerUserID(ctx, sub.Customer); id != "" {
		return id, nil
	}

	cid := qstripe.CustomerID(sub)
	if cid == "" {
		return "", nil
	}
	var u users.User
	err := db.Select("id").Where("stripe_customer_id = ?", cid).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return u.ID, err
}

// planForPrice maps the subscription's price to a paid plan.
func planForPrice(sub *stripe.Subscription) (string, bool) {
	return config.Cfg.PlanForPrice(qstripe.PriceID(sub))
}

// existingMirror returns the stored subscription row for a Stripe id, or nil.
func existingMirror(db *gorm.DB, stripeID string) (*billing.Subscription, error) {
	var s billing.Subscription
	err := db.Where("stripe_subscription_id = ?", stripeID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func userExists(db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.Model(&users.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func paidPlan(id string) bool {
	p, ok := plans.Lookup(id)
	return ok && p.IsPaid()
}

func dbFrom(ctx context.Context) *gorm.DB {
	return database.DB.WithContext(ctx)
}
