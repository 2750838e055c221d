package usersapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/app/http/middleware"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/usage"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /me (auth)
func GetCurrentUser(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	var user users.User
	if err := db.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	now := time.Now()
	u, err := usage.Load(c.Request.Context(), database.DB, user.ID, now)
	if err != nil {
		logger.WithComponent("users").Error("load usage", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load usage"})
		return
	}

	c.JSON(http.StatusOK, buildMe(user, access.ComputePolicy(now, user, u)))
}

func buildMe(user users.User, policy access.Policy) MeResponse {
	return MeResponse{
		User:    BuildUserDTO(user),
		Billing: BuildBillingDTO(user),
		Access:  BuildAccessDTO(policy),
	}
}

// PUT /me (auth)
func UpdateCurrentUser(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.CompanyName != nil {
		updates["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Website != nil {
		updates["website"] = strings.TrimSpace(*req.Website)
	}
	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}

	db := database.DB.WithContext(c.Request.Context())
	userID := middleware.UserID(c)
	if len(updates) > 0 {
		res := db.Model(&users.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
	}

	var user users.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": BuildUserDTO(user)})
}

// GET /verify?token=
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var t users.VerificationToken
		if err := tx.Where("token = ? AND type = ?", token, users.TokenVerifyEmail).First(&t).Error; err != nil {
			return err
		}
		if t.Expired(time.Now()) {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&users.VerificationToken{}, t.ID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, config.Cfg.AppURL+"/signin?verified=1")
}
