// Package stripetest provides an in-memory Gateway for handler tests.
package stripetest

import (
	"context"
	"fmt"
	"sync"

	qstripe "quickfeedback/internal/infra/stripe"

	gostripe "github.com/stripe/stripe-go/v75"
)

type Fake struct {
	mu sync.Mutex

	Customers     map[string]*gostripe.Customer
	Subscriptions map[string]*gostripe.Subscription

	Checkouts []qstripe.CheckoutInput
	Portals   []string
	Err       error

	seq int
}

func New() *Fake {
	return &Fake{
		Customers:     map[string]*gostripe.Customer{},
		Subscriptions: map[string]*gostripe.Subscription{},
	}
}

// Install makes f the process gateway until the returned func is called.
func (f *Fake) Install() func() {
	return qstripe.Use(f)
}

func (f *Fake) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func notFound(kind, id string) error {
	return &gostripe.Error{HTTPStatusCode: 404, Msg: fmt.Sprintf("No such %s: '%s'", kind, id)}
}

func (f *Fake) GetCustomer(_ context.Context, id string) (*gostripe.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return c, nil
}

func (f *Fake) CreateCustomer(_ context.Context, in qstripe.CustomerInput) (*gostripe.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c := &gostripe.Customer{
		ID:       f.next("cus"),
		Email:    in.Email,
		Metadata: map[string]string{"userId": in.UserID},
	}
	f.Customers[c.ID] = c
	return c, nil
}

func (f *Fake) GetSubscription(_ context.Context, id string) (*gostripe.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	s, ok := f.Subscriptions[id]
	if !ok {
		return nil, notFound("subscription", id)
	}
	return s, nil
}

func (f *Fake) SetCancelAtPeriodEnd(_ context.Context, id string, cancel bool) (*gostripe.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	s, ok := f.Subscriptions[id]
	if !ok {
		return nil, notFound("subscription", id)
	}
	s.CancelAtPeriodEnd = cancel
	return s, nil
}

func (f *Fake) CreateCheckoutSession(_ context.Context, in qstripe.CheckoutInput) (*gostripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Checkouts = append(f.Checkouts, in)
	id := f.next("cs")
	return &gostripe.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (f *Fake) CreatePortalSession(_ context.Context, customerID, returnURL string) (*gostripe.BillingPortalSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.Portals = append(f.Portals, customerID)
	return &gostripe.BillingPortalSession{ID: f.next("bps"), URL: "https://billing.stripe.test/" + customerID, ReturnURL: returnURL}, nil
}
