package feedbackapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"quickfeedback/database"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
)

var csvHeader = []string{
	"id", "created_at", "rating", "comment", "url", "browser", "device",
	"os", "country", "city", "language", "referrer", "time_on_page", "screen_size",
}

// GET /api/feedback/site/:siteId/export (auth, Data Export)
func ExportSiteFeedbackCSV(c *gin.Context) {
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

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="feedback-%s.csv"`, s.ID))
	c.Status(http.StatusOK)

	if err := writeCSV(c.Writer, items); err != nil {
		logger.WithComponent("feedback").Error("export csv", "site_id", s.ID, "err", err)
	}
}

func writeCSV(w http.ResponseWriter, items []feedback.Feedback) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range items {
		tp := ""
		if f.TimeOnPage != nil {
			tp = strconv.Itoa(*f.TimeOnPage)
		}
		row := []string{
			f.ID,
			f.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(f.Rating),
			deref(f.Comment),
			deref(f.URL),
			deref(f.Browser),
			deref(f.Device),
			deref(f.OS),
			deref(f.Country),
			deref(f.City),
			deref(f.Language),
			deref(f.Referrer),
			tp,
			deref(f.ScreenSize),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
