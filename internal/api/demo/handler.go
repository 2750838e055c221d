// Package demoapi backs the public widget playground. Entries live in memory
// and disappear on restart.
package demoapi

import (
	"net/http"
	"sync"
	"time"

	"quickfeedback/internal/domain/feedback"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const DefaultCapacity = 100

// Store keeps the newest demo entries, dropping the oldest past capacity.
type Store struct {
	mu       sync.Mutex
	capacity int
	items    []feedback.Feedback
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

func (s *Store) Add(f feedback.Feedback) feedback.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	s.items = append([]feedback.Feedback{f}, s.items...)
	if len(s.items) > s.capacity {
		s.items = s.items[:s.capacity]
	}
	return f
}

// List returns a copy, newest first.
func (s *Store) List() []feedback.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]feedback.Feedback, len(s.items))
	copy(out, s.items)
	return out
}

var store = NewStore(DefaultCapacity)

type submitRequest struct {
	Rating     *int    `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
	URL        *string `json:"url"`
	Browser    *string `json:"browser"`
	Device     *string `json:"device"`
	Country    *string `json:"country"`
	City       *string `json:"city"`
	TimeOnPage *int    `json:"time_on_page" binding:"omitempty,min=0"`
}

// POST /api/demo-feedback (public)
func SubmitDemoFeedback(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}
	if !feedback.ValidRating(*req.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": feedback.ErrInvalidRating.Error()})
		return
	}

	entry := store.Add(feedback.Feedback{
		SiteID:     "demo",
		Rating:     *req.Rating,
		Comment:    req.Comment,
		URL:        req.URL,
		Browser:    req.Browser,
		Device:     req.Device,
		Country:    req.Country,
		City:       req.City,
		TimeOnPage: req.TimeOnPage,
	})
	c.JSON(http.StatusOK, entry)
}

// GET /api/demo-feedback (public)
func ListDemoFeedback(c *gin.Context) {
	items := store.List()
	c.JSON(http.StatusOK, gin.H{
		"feedback":  items,
		"analytics": feedback.ComputeAnalytics(items, time.Now()),
	})
}
