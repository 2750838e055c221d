// Package testutil wires an in-memory database for package tests.
package testutil

import (
	"testing"
	"time"

	"quickfeedback/config"
	"quickfeedback/database"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite database and installs it as database.DB for
// the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

// UseConfig installs a minimal configuration for the duration of the test.
func UseConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := config.Cfg
	cfg := &config.Config{
		Env:        "test",
		Port:       "8080",
		JWTSecret:  "test-secret-0123456789",
		AppURL:     "http://localhost:5173",
		APIURL:     "http://localhost:8080",
		CORSOrigin: "http://localhost:5173",
	}
	cfg.Stripe.WebhookSecret = "whsec_test"
	cfg.Stripe.PricePro = "price_pro"
	cfg.Stripe.PriceBusiness = "price_business"
	cfg.Stripe.PriceEnterprise = "price_enterprise"
	config.Cfg = cfg
	t.Cleanup(func() { config.Cfg = prev })
	return cfg
}

// CreateUser inserts a verified account on the given plan.
func CreateUser(t *testing.T, db *gorm.DB, email, plan string) users.User {
	t.Helper()
	if plan == "" {
		plan = plans.Free
	}
	u := users.User{
		Email:              email,
		AuthProvider:       users.ProviderLocal,
		Role:               users.RoleUser,
		IsVerified:         true,
		Plan:               plan,
		SubscriptionStatus: "active",
		EmailNotifications: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func CreateSite(t *testing.T, db *gorm.DB, owner users.User, name string) site.Site {
	t.Helper()
	s := site.Site{UserID: owner.ID, Name: name, URL: "https://" + name + ".example.com"}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// AsUser stands in for the JWT middleware in handler tests.
func AsUser(u users.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", u.ID)
		c.Set("email", u.Email)
		c.Set("role", u.Role)
		c.Next()
	}
}
