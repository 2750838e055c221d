package stripe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gostripe "github.com/stripe/stripe-go/v75"
)

func TestNormalizeStripeStatus(t *testing.T) {
	tests := map[string]string{
		"":                   "none",
		"  ":                 "none",
		"active":             "active",
		"trialing":           "trialing",
		"past_due":           "past_due",
		"unpaid":             "past_due",
		"canceled":           "canceled",
		"incomplete_expired": "canceled",
		"incomplete":         "incomplete",
		"inactive":           "inactive",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeStripeStatus(in), "status %q", in)
	}

	assert.True(t, IsActiveStatus("active"))
	assert.True(t, IsActiveStatus("trialing"))
	assert.False(t, IsActiveStatus("past_due"))
	assert.False(t, IsActiveStatus("inactive"))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&gostripe.Error{HTTPStatusCode: 400}))
	assert.True(t, IsClientError(&gostripe.Error{HTTPStatusCode: 404}))
	assert.False(t, IsClientError(&gostripe.Error{HTTPStatusCode: 429}))
	assert.False(t, IsClientError(&gostripe.Error{HTTPStatusCode: 502}))
	assert.False(t, IsClientError(errors.New("dial tcp: timeout")))
}

func TestCall_OpensAfterConsecutiveServerFailures(t *testing.T) {
	cb := newBreaker("test")
	serverErr := &gostripe.Error{HTTPStatusCode: 500}

	for i := 0; i < 6; i++ {
		_, err := call(cb, func() (*gostripe.Customer, error) { return nil, serverErr })
		require.ErrorIs(t, err, serverErr)
	}

	calls := 0
	_, err := call(cb, func() (*gostripe.Customer, error) {
		calls++
		return &gostripe.Customer{ID: "cus_1"}, nil
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, calls)
}

func TestCall_ClientErrorsDoNotTrip(t *testing.T) {
	cb := newBreaker("test")
	notFound := &gostripe.Error{HTTPStatusCode: 404}

	for i := 0; i < 10; i++ {
		_, err := call(cb, func() (*gostripe.Customer, error) { return nil, notFound })
		require.ErrorIs(t, err, notFound)
	}

	got, err := call(cb, func() (*gostripe.Customer, error) { return &gostripe.Customer{ID: "cus_1"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "cus_1", got.ID)
}

func TestUseAndGet(t *testing.T) {
	restore := Use(nil)
	defer restore()

	_, err := Get()
	assert.ErrorIs(t, err, ErrNotConfigured)

	Configure("sk_test_123")
	g, err := Get()
	require.NoError(t, err)
	assert.IsType(t, &Client{}, g)
}

func TestToSubscription(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	sub := &gostripe.Subscription{
		ID:                 "sub_1",
		Status:             gostripe.SubscriptionStatusActive,
		Customer:           &gostripe.Customer{ID: "cus_1"},
		CurrentPeriodStart: start.Unix(),
		CurrentPeriodEnd:   end.Unix(),
		CancelAtPeriodEnd:  true,
		Items: &gostripe.SubscriptionItemList{
			Data: []*gostripe.SubscriptionItem{{Price: &gostripe.Price{ID: "price_pro"}}},
		},
	}

	rec := ToSubscription(sub, "user-1", "pro")
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "sub_1", rec.StripeSubscriptionID)
	assert.Equal(t, "cus_1", rec.StripeCustomerID)
	assert.Equal(t, "pro", rec.PlanID)
	assert.Equal(t, "active", rec.Status)
	require.NotNil(t, rec.CurrentPeriodEnd)
	assert.True(t, end.Equal(*rec.CurrentPeriodEnd))
	assert.Nil(t, rec.CanceledAt)
	assert.True(t, rec.CancelAtPeriodEnd)

	assert.Equal(t, "price_pro", PriceID(sub))
	assert.Equal(t, "", PriceID(&gostripe.Subscription{}))
	assert.Equal(t, "", CustomerID(nil))
}
