package billingapi

import (
	"net/http"

	"quickfeedback/config"
	"quickfeedback/internal/domain/plans"
	qstripe "quickfeedback/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	PlanID     string `json:"planId" binding:"required"`
	SuccessURL string `json:"successUrl" binding:"omitempty,url"`
	CancelURL  string `json:"cancelUrl" binding:"omitempty,url"`
}

// POST /api/billing/checkout (auth)
func CreateCheckoutSession(c *gin.Context) {
	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid planId"})
		return
	}

	plan, ok := plans.Lookup(body.PlanID)
	if !ok || !plan.IsPaid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
		return
	}
	priceID := config.Cfg.StripePriceID(plan.ID)
	if priceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan is not available for purchase"})
		return
	}

	g, ok := gateway(c)
	if !ok {
		return
	}
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first"})
		return
	}

	ctx := c.Request.Context()
	customerID, err := ensureCustomer(ctx, g, user)
	if err != nil {
		stripeFailure(c, "create Stripe customer", err)
		return
	}

	if body.SuccessURL == "" {
		body.SuccessURL = config.Cfg.AppURL + "/dashboard/billing?success=true"
	}
	if body.CancelURL == "" {
		body.CancelURL = config.Cfg.AppURL + "/dashboard/billing?canceled=true"
	}

	s, err := g.CreateCheckoutSession(ctx, qstripe.CheckoutInput{
		CustomerID: customerID,
		PriceID:    priceID,
		PlanID:     plan.ID,
		UserID:     user.ID,
		SuccessURL: body.SuccessURL,
		CancelURL:  body.CancelURL,
	})
	if err != nil {
		stripeFailure(c, "create checkout session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL, "sessionId": s.ID})
}

// POST /api/billing/portal (auth)
func CreateBillingPortal(c *gin.Context) {
	var body struct {
		ReturnURL string `json:"returnUrl" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid returnUrl"})
		return
	}

	g, ok := gateway(c)
	if !ok {
		return
	}
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	if body.ReturnURL == "" {
		body.ReturnURL = config.Cfg.AppURL + "/dashboard/billing"
	}

	portal, err := g.CreatePortalSession(c.Request.Context(), *user.StripeCustomerID, body.ReturnURL)
	if err != nil {
		stripeFailure(c, "create billing portal session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
