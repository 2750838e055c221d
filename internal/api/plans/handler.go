package plansapi

import (
	"net/http"

	"quickfeedback/config"
	"quickfeedback/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type PlanDTO struct {
	plans.Plan
	// Purchasable is true when checkout can be started for the plan.
	Purchasable bool `json:"purchasable"`
}

// GET /api/plans (public)
func ListPlans(c *gin.Context) {
	all := plans.All()
	out := make([]PlanDTO, 0, len(all))
	for _, p := range all {
		out = append(out, PlanDTO{
			Plan:        p,
			Purchasable: p.IsPaid() && config.Cfg.StripePriceID(p.ID) != "",
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}
