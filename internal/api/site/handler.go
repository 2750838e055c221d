package siteapi

import (
	"errors"
	"net/http"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/app/http/middleware"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/infra/metrics"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errSiteLimit = errors.New("site limit reached")

// GET /api/sites (auth)
func ListSites(c *gin.Context) {
	sites, err := site.ListForUser(database.DB.WithContext(c.Request.Context()), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sites"})
		return
	}

	out := make([]SiteDTO, 0, len(sites))
	for _, s := range sites {
		out = append(out, toDTO(s))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/sites (auth)
func CreateSite(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and URL are required"})
		return
	}
	u, err := site.NormalizeURL(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	now := time.Now()
	var (
		planID   string
		decision access.Decision
		created  site.Site
	)

	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		owner, err := database.LockUser(tx, userID)
		if err != nil {
			return err
		}

		n, err := site.CountForUser(tx, owner.ID)
		if err != nil {
			return err
		}

		planID = access.EffectivePlanID(now, owner)
		decision = access.Evaluate(planID, int(n)+1, 0)
		if !decision.Allowed {
			return errSiteLimit
		}

		created = site.Site{UserID: owner.ID, Name: req.Name, URL: u}
		return tx.Create(&created).Error
	})

	switch {
	case errors.Is(err, errSiteLimit):
		metrics.EntitlementDenialsTotal.WithLabelValues(planID, string(decision.Exceeded)).Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	case err != nil:
		logger.WithComponent("sites").Error("create site", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	c.JSON(http.StatusCreated, toDTO(created))
}

// GET /api/sites/:id (auth)
func GetSite(c *gin.Context) {
	s, ok := loadOwned(c, database.DB.WithContext(c.Request.Context()))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDTO(s))
}

// PUT /api/sites/:id (auth)
func UpdateSite(c *gin.Context) {
	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	s, ok := loadOwned(c, db)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		s.Name = *req.Name
	}
	if req.URL != nil {
		u, err := site.NormalizeURL(*req.URL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["url"] = u
		s.URL = u
	}

	if len(updates) > 0 {
		if err := db.Model(&s).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
			return
		}
	}
	c.JSON(http.StatusOK, toDTO(s))
}

// DELETE /api/sites/:id (auth)
func DeleteSite(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	s, ok := loadOwned(c, db)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("site_id = ?", s.ID).Delete(&feedback.Feedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&site.Site{}, "id = ?", s.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete site"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func loadOwned(c *gin.Context, db *gorm.DB) (site.Site, bool) {
	s, err := site.FindOwned(db, c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
			return s, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site"})
		return s, false
	}
	return s, true
}
