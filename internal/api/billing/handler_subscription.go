package billingapi

import (
	"net/http"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/usage"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
)

// GET /api/billing/subscription (auth)
func GetSubscription(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sub, err := billing.LatestForUser(database.DB.WithContext(ctx), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	now := time.Now()
	u, err := usage.Load(ctx, database.DB, user.ID, now)
	if err != nil {
		logger.WithComponent("billing").Error("load usage", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage"})
		return
	}
	policy := access.ComputePolicy(now, user, u)

	c.JSON(http.StatusOK, gin.H{
		"subscription":      sub,
		"plan":              policy.Plan,
		"isActive":          sub != nil && sub.IsActive(),
		"cancelAtPeriodEnd": sub != nil && sub.CancelAtPeriodEnd,
		"usage":             policy.Usage,
	})
}
