package billingapi

import (
	"context"
	"errors"
	"net/http"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/app/http/middleware"
	"quickfeedback/internal/domain/users"
	qstripe "quickfeedback/internal/infra/stripe"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func loadUser(c *gin.Context) (users.User, bool) {
	var user users.User
	err := database.DB.WithContext(c.Request.Context()).First(&user, "id = ?", middleware.UserID(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return user, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return user, false
	}
	return user, true
}

func gateway(c *gin.Context) (qstripe.Gateway, bool) {
	g, err := qstripe.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Billing is not configured"})
		return nil, false
	}
	return g, true
}

// stripeFailure maps gateway errors to a response.
func stripeFailure(c *gin.Context, action string, err error) {
	logger.WithComponent("billing").Error(action, "user_id", middleware.UserID(c), "err", err)
	if errors.Is(err, qstripe.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Billing is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to " + action})
}

func isNotFound(err error) bool {
	var se *gostripe.Error
	return errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound
}

// ensureCustomer returns the account's Stripe customer, creating one (and
// storing its id) when none exists or the stored one was deleted in Stripe.
func ensureCustomer(ctx context.Context, g qstripe.Gateway, user users.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		cus, err := g.GetCustomer(ctx, *user.StripeCustomerID)
		if err == nil && !cus.Deleted {
			return cus.ID, nil
		}
		if err != nil && !isNotFound(err) {
			return "", err
		}
	}

	cus, err := g.CreateCustomer(ctx, qstripe.CustomerInput{
		Email:  user.Email,
		Name:   user.Name,
		UserID: user.ID,
		AppEnv: config.Cfg.Env,
	})
	if err != nil {
		return "", err
	}

	err = database.DB.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("stripe_customer_id", cus.ID).Error
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}
