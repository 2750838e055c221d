package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Cfg holds the configuration loaded at startup.
var Cfg = &Config{}

type Config struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	Port       string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	DBURL      string `envconfig:"DB_URL" validate:"required"`
	JWTSecret  string `envconfig:"JWT_SECRET" validate:"required,min=16"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	AppURL     string `envconfig:"APP_URL" default:"http://localhost:5173" validate:"url"`
	APIURL     string `envconfig:"API_URL" default:"http://localhost:8080" validate:"url"`

	// Public feedback submissions allowed per client IP per minute. 0 disables the limit.
	FeedbackRatePerMinute int `envconfig:"FEEDBACK_RATE_PER_MINUTE" default:"30" validate:"gte=0"`

	Log    LogConfig    `envconfig:"LOG"`
	Stripe StripeConfig `envconfig:"STRIPE"`
	Google GoogleConfig `envconfig:"GOOGLE"`
	SMTP   SMTPConfig   `envconfig:"SMTP"`
	Redis  RedisConfig  `envconfig:"REDIS"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

type StripeConfig struct {
	SecretKey       string `envconfig:"SECRET_KEY"`
	WebhookSecret   string `envconfig:"WEBHOOK_SECRET"`
	PricePro        string `envconfig:"PRICE_PRO"`
	PriceBusiness   string `envconfig:"PRICE_BUSINESS"`
	PriceEnterprise string `envconfig:"PRICE_ENTERPRISE"`
}

type GoogleConfig struct {
	ClientID         string `envconfig:"CLIENT_ID"`
	ClientSecret     string `envconfig:"CLIENT_SECRET"`
	RedirectURL      string `envconfig:"REDIRECT_URL"`
	FrontendRedirect string `envconfig:"FRONTEND_REDIRECT"`
}

type SMTPConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"QuickFeedback <no-reply@quickfeedback.app>"`
}

type RedisConfig struct {
	URL string `envconfig:"URL"`
}

// LoadEnv reads .env (if present) and the process environment into Cfg.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	return Load()
}

// Load decodes and validates the process environment without touching .env.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	Cfg = &cfg
	return Cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) StripeEnabled() bool {
	return c.Stripe.SecretKey != ""
}

func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// StripePriceID returns the recurring Stripe price configured for a paid plan.
func (c *Config) StripePriceID(planID string) string {
	switch planID {
	case "pro":
		return c.Stripe.PricePro
	case "business":
		return c.Stripe.PriceBusiness
	case "enterprise":
		return c.Stripe.PriceEnterprise
	}
	return ""
}

// PlanForPrice maps a Stripe price id back to a plan id.
func (c *Config) PlanForPrice(priceID string) (string, bool) {
	if priceID == "" {
		return "", false
	}
	for _, planID := range []string{"pro", "business", "enterprise"} {
		if c.StripePriceID(planID) == priceID {
			return planID, true
		}
	}
	return "", false
}
