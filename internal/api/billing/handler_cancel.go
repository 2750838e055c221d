package billingapi

import (
	"net/http"

	"quickfeedback/database"
	"quickfeedback/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// POST /api/billing/cancel (auth)
func CancelSubscription(c *gin.Context) {
	setCancelAtPeriodEnd(c, true)
}

// POST /api/billing/resume (auth)
func ResumeSubscription(c *gin.Context) {
	setCancelAtPeriodEnd(c, false)
}

// setCancelAtPeriodEnd flips cancellation on Stripe first; the mirror row
// follows, and the webhook will confirm it again.
func setCancelAtPeriodEnd(c *gin.Context, cancel bool) {
	g, ok := gateway(c)
	if !ok {
		return
	}
	user, ok := loadUser(c)
	if !ok {
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	sub, err := billing.LatestForUser(db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	if sub == nil || !sub.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription"})
		return
	}
	if sub.CancelAtPeriodEnd == cancel {
		c.JSON(http.StatusOK, gin.H{"success": true, "cancelAtPeriodEnd": cancel, "currentPeriodEnd": sub.CurrentPeriodEnd})
		return
	}

	action := "resume subscription"
	if cancel {
		action = "cancel subscription"
	}
	if _, err := g.SetCancelAtPeriodEnd(c.Request.Context(), sub.StripeSubscriptionID, cancel); err != nil {
		stripeFailure(c, action, err)
		return
	}

	if err := db.Model(&billing.Subscription{}).
		Where("id = ?", sub.ID).
		Update("cancel_at_period_end", cancel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cancelAtPeriodEnd": cancel, "currentPeriodEnd": sub.CurrentPeriodEnd})
}
