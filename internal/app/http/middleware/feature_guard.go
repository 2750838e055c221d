package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireFeature rejects accounts whose effective plan does not include f.
func RequireFeature(f plans.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user users.User
		err := database.DB.WithContext(c.Request.Context()).First(&user, "id = ?", UserID(c)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		policy := access.ComputePolicy(time.Now(), user, access.Usage{})
		if !policy.Allows(f) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("%s is not included in your %s plan. Please upgrade to use it.", f, policy.Plan.Name),
			})
			return
		}

		c.Set("plan_id", policy.PlanID)
		c.Next()
	}
}
