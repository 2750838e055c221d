package feedbackapi

import (
	"errors"
	"net/http"
	"time"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/app/http/middleware"
	"quickfeedback/internal/domain/access"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/infra/mailer"
	"quickfeedback/internal/infra/metrics"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errLimitReached = errors.New("feedback limit reached")

// POST /api/feedback (public)
func SubmitFeedback(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.FeedbackSubmissionsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "siteId and rating are required"})
		return
	}
	if !feedback.ValidRating(*req.Rating) {
		metrics.FeedbackSubmissionsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": feedback.ErrInvalidRating.Error()})
		return
	}

	now := time.Now().UTC()
	var (
		s        site.Site
		owner    users.User
		planID   string
		decision access.Decision
		entry    feedback.Feedback
	)

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, "id = ?", req.SiteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return feedback.ErrSiteNotFound
			}
			return err
		}

		var err error
		owner, err = database.LockUser(tx, s.UserID)
		if err != nil {
			return err
		}

		n, err := feedback.CountForOwnerSince(tx, owner.ID, feedback.MonthStart(now))
		if err != nil {
			return err
		}

		planID = access.EffectivePlanID(now, owner)
		decision = access.Evaluate(planID, 0, int(n)+1)
		if !decision.Allowed {
			return errLimitReached
		}

		entry = req.toModel(s.ID)
		return tx.Create(&entry).Error
	})

	switch {
	case errors.Is(err, feedback.ErrSiteNotFound):
		metrics.FeedbackSubmissionsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	case errors.Is(err, errLimitReached):
		metrics.FeedbackSubmissionsTotal.WithLabelValues("limited").Inc()
		metrics.EntitlementDenialsTotal.WithLabelValues(planID, string(decision.Exceeded)).Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
		return
	case err != nil:
		metrics.FeedbackSubmissionsTotal.WithLabelValues("error").Inc()
		logger.WithComponent("feedback").Error("submit feedback", "site_id", req.SiteID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		return
	}

	metrics.FeedbackSubmissionsTotal.WithLabelValues("accepted").Inc()
	if owner.EmailNotifications {
		notifyOwner(owner, s, entry)
	}
	c.JSON(http.StatusOK, entry)
}

// notifyOwner never fails the submission; the entry is already stored.
func notifyOwner(owner users.User, s site.Site, f feedback.Feedback) {
	notice := mailer.FeedbackNotice{
		SiteName:     s.Name,
		Rating:       f.Rating,
		Comment:      deref(f.Comment),
		PageURL:      deref(f.URL),
		City:         deref(f.City),
		Country:      deref(f.Country),
		Device:       deref(f.Device),
		Browser:      deref(f.Browser),
		DashboardURL: config.Cfg.AppURL + "/dashboard/sites/" + s.ID,
	}
	if err := mailer.Get().SendFeedbackNotification(owner.Email, notice); err != nil {
		logger.WithComponent("feedback").Warn("feedback notification failed", "user_id", owner.ID, "site_id", s.ID, "err", err)
	}
}

// GET /api/feedback/:id (auth)
func GetFeedback(c *gin.Context) {
	f, err := feedback.FindOwned(database.DB.WithContext(c.Request.Context()), c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}
	c.JSON(http.StatusOK, f)
}

// DELETE /api/feedback/:id (auth)
func DeleteFeedback(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	f, err := feedback.FindOwned(db, c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}

	if err := db.Delete(&feedback.Feedback{}, "id = ?", f.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/feedback/site/:siteId (auth)
func ListSiteFeedback(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	s, ok := ownedSite(c, db)
	if !ok {
		return
	}

	items, err := feedback.ListForSite(db, s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}

	if c.Query("analytics") == "true" {
		c.JSON(http.StatusOK, ListWithAnalyticsResponse{
			Feedback:  items,
			Analytics: feedback.ComputeAnalytics(items, time.Now()),
		})
		return
	}
	c.JSON(http.StatusOK, items)
}

func ownedSite(c *gin.Context, db *gorm.DB) (site.Site, bool) {
	s, err := site.FindOwned(db, c.Param("siteId"), middleware.UserID(c))
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
