package routes

import (
	"net/http"
	"strings"
	"time"

	"quickfeedback/config"
	adminapi "quickfeedback/internal/api/admin"
	authapi "quickfeedback/internal/api/auth"
	billingapi "quickfeedback/internal/api/billing"
	demoapi "quickfeedback/internal/api/demo"
	feedbackapi "quickfeedback/internal/api/feedback"
	plansapi "quickfeedback/internal/api/plans"
	siteapi "quickfeedback/internal/api/site"
	stripewebhooks "quickfeedback/internal/api/stripewebhook"
	usersapi "quickfeedback/internal/api/users"
	"quickfeedback/internal/app/http/middleware"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/infra/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Paths called by the embeddable widget from customer origins.
var widgetPaths = map[string]bool{
	"/api/feedback":      true,
	"/api/demo-feedback": true,
	"/api/plans":         true,
}

// NewRouter builds the engine with recovery, request logging and CORS, then
// registers every route. limiter may be nil.
func NewRouter(cfg *config.Config, limiter ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), corsMiddleware(cfg))
	RegisterRoutes(r, cfg, limiter)
	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	var origins []string
	for _, o := range strings.Split(cfg.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	app := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	widget := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	})

	return func(c *gin.Context) {
		if widgetPaths[c.Request.URL.Path] {
			widget(c)
			return
		}
		app(c)
	}
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, limiter ratelimit.Limiter) {
	r.POST("/webhook/stripe", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Widget endpoints
	r.POST("/api/feedback",
		middleware.RateLimitByIP(limiter, "feedback", cfg.FeedbackRatePerMinute),
		middleware.SanitizeAndCleanInputMiddleware(),
		feedbackapi.SubmitFeedback,
	)
	r.POST("/api/demo-feedback", middleware.SanitizeAndCleanInputMiddleware(), demoapi.SubmitDemoFeedback)
	r.GET("/api/demo-feedback", demoapi.ListDemoFeedback)
	r.GET("/api/plans", plansapi.ListPlans)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", usersapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.PUT("/me", usersapi.UpdateCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/api/sites", siteapi.ListSites)
	auth.POST("/api/sites", siteapi.CreateSite)
	auth.GET("/api/sites/:id", siteapi.GetSite)
	auth.PUT("/api/sites/:id", siteapi.UpdateSite)
	auth.DELETE("/api/sites/:id", siteapi.DeleteSite)

	auth.GET("/api/feedback/:id", feedbackapi.GetFeedback)
	auth.DELETE("/api/feedback/:id", feedbackapi.DeleteFeedback)
	auth.GET("/api/feedback/site/:siteId", feedbackapi.ListSiteFeedback)
	auth.GET("/api/feedback/site/:siteId/export",
		middleware.RequireFeature(plans.FeatureDataExport),
		feedbackapi.ExportSiteFeedbackCSV,
	)

	billing := auth.Group("/api/billing")
	billing.POST("/checkout", billingapi.CreateCheckoutSession)
	billing.POST("/portal", billingapi.CreateBillingPortal)
	billing.GET("/subscription", billingapi.GetSubscription)
	billing.POST("/cancel", billingapi.CancelSubscription)
	billing.POST("/resume", billingapi.ResumeSubscription)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/subscriptions", adminapi.ListAllSubscriptions)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/user/:id", adminapi.GetUserDetails)
}
