package stripe

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	gostripe "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// ErrNotConfigured is returned when no Stripe secret key was provided.
var ErrNotConfigured = errors.New("stripe is not configured")

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("stripe is temporarily unavailable")

// Gateway is the subset of the Stripe API the billing flows use.
type Gateway interface {
	GetCustomer(ctx context.Context, id string) (*gostripe.Customer, error)
	CreateCustomer(ctx context.Context, in CustomerInput) (*gostripe.Customer, error)
	GetSubscription(ctx context.Context, id string) (*gostripe.Subscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*gostripe.Subscription, error)
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*gostripe.CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*gostripe.BillingPortalSession, error)
}

type CustomerInput struct {
	Email  string
	Name   string
	UserID string
	AppEnv string
}

type CheckoutInput struct {
	CustomerID string
	PriceID    string
	PlanID     string
	UserID     string
	SuccessURL string
	CancelURL  string
}

var (
	mu      sync.RWMutex
	current Gateway
)

// Configure installs a live gateway for the given secret key.
func Configure(secretKey string) {
	if secretKey == "" {
		Use(nil)
		return
	}
	Use(NewClient(secretKey))
}

// Use replaces the process gateway and returns a func restoring the previous one.
func Use(g Gateway) (restore func()) {
	mu.Lock()
	prev := current
	current = g
	mu.Unlock()
	return func() { Use(prev) }
}

// Get returns the configured gateway or ErrNotConfigured.
func Get() (Gateway, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil, ErrNotConfigured
	}
	return current, nil
}

// Client talks to the Stripe API through a circuit breaker.
type Client struct {
	api     *client.API
	breaker *gobreaker.CircuitBreaker[any]
}

func NewClient(secretKey string) *Client {
	return &Client{
		api:     client.New(secretKey, nil),
		breaker: newBreaker("stripe"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err)
		},
	})
}

// IsClientError reports whether Stripe rejected the request itself (4xx other than 429).
func IsClientError(err error) bool {
	var se *gostripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 && se.HTTPStatusCode != http.StatusTooManyRequests
}

func call[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, ErrUnavailable
	}
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, errors.New("stripe: unexpected response type")
	}
	return v, nil
}

func params(ctx context.Context) gostripe.Params {
	return gostripe.Params{Context: ctx}
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*gostripe.Customer, error) {
	return call(c.breaker, func() (*gostripe.Customer, error) {
		return c.api.Customers.Get(id, &gostripe.CustomerParams{Params: params(ctx)})
	})
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*gostripe.Customer, error) {
	p := &gostripe.CustomerParams{
		Params: params(ctx),
		Email:  gostripe.String(in.Email),
		Metadata: map[string]string{
			"userId":  in.UserID,
			"app_env": in.AppEnv,
		},
	}
	if in.Name != "" {
		p.Name = gostripe.String(in.Name)
	}
	return call(c.breaker, func() (*gostripe.Customer, error) {
		return c.api.Customers.New(p)
	})
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*gostripe.Subscription, error) {
	return call(c.breaker, func() (*gostripe.Subscription, error) {
		return c.api.Subscriptions.Get(id, &gostripe.SubscriptionParams{Params: params(ctx)})
	})
}

func (c *Client) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*gostripe.Subscription, error) {
	return call(c.breaker, func() (*gostripe.Subscription, error) {
		return c.api.Subscriptions.Update(subscriptionID, &gostripe.SubscriptionParams{
			Params:            params(ctx),
			CancelAtPeriodEnd: gostripe.Bool(cancel),
		})
	})
}

func (c *Client) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*gostripe.CheckoutSession, error) {
	p := &gostripe.CheckoutSessionParams{
		Params:     params(ctx),
		SuccessURL: gostripe.String(in.SuccessURL),
		CancelURL:  gostripe.String(in.CancelURL),
		Mode:       gostripe.String(string(gostripe.CheckoutSessionModeSubscription)),
		Customer:   gostripe.String(in.CustomerID),
		LineItems: []*gostripe.CheckoutSessionLineItemParams{
			{Price: gostripe.String(in.PriceID), Quantity: gostripe.Int64(1)},
		},
		ClientReferenceID: gostripe.String(in.UserID),
		SubscriptionData: &gostripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"userId": in.UserID,
				"planId": in.PlanID,
			},
		},
	}
	p.AddMetadata("planId", in.PlanID)
	p.AddMetadata("userId", in.UserID)

	return call(c.breaker, func() (*gostripe.CheckoutSession, error) {
		return c.api.CheckoutSessions.New(p)
	})
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*gostripe.BillingPortalSession, error) {
	return call(c.breaker, func() (*gostripe.BillingPortalSession, error) {
		return c.api.BillingPortalSessions.New(&gostripe.BillingPortalSessionParams{
			Params:    params(ctx),
			Customer:  gostripe.String(customerID),
			ReturnURL: gostripe.String(returnURL),
		})
	})
}
