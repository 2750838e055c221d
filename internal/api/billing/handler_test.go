package billingapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
	qstripe "quickfeedback/internal/infra/stripe"
	"quickfeedback/internal/infra/stripe/stripetest"
	"quickfeedback/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gostripe "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func billingRouter(u users.User) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/billing", testutil.AsUser(u))
	g.POST("/checkout", CreateCheckoutSession)
	g.POST("/portal", CreateBillingPortal)
	g.GET("/subscription", GetSubscription)
	g.POST("/cancel", CancelSubscription)
	g.POST("/resume", ResumeSubscription)
	return r
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func activeSubscription(t *testing.T, db *gorm.DB, fake *stripetest.Fake, u users.User, planID string) billing.Subscription {
	t.Helper()
	end := time.Now().Add(20 * 24 * time.Hour).UTC().Truncate(time.Second)
	fake.Subscriptions["sub_1"] = &gostripe.Subscription{ID: "sub_1", Status: gostripe.SubscriptionStatusActive}
	s := billing.Subscription{
		UserID:               u.ID,
		StripeSubscriptionID: "sub_1",
		StripeCustomerID:     "cus_existing",
		PlanID:               planID,
		Status:               "active",
		CurrentPeriodEnd:     &end,
	}
	require.NoError(t, billing.SaveSubscription(db, s))
	return s
}

func TestCreateCheckoutSession(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	fake := stripetest.New()
	defer fake.Install()()

	u := testutil.CreateUser(t, db, "buyer@example.com", plans.Free)
	r := billingRouter(u)

	w := call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"pro","successUrl":"https://app.test/ok","cancelUrl":"https://app.test/no"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["url"], "https://checkout.stripe.test/"))

	require.Len(t, fake.Checkouts, 1)
	in := fake.Checkouts[0]
	assert.Equal(t, "price_pro", in.PriceID)
	assert.Equal(t, plans.Pro, in.PlanID)
	assert.Equal(t, u.ID, in.UserID)
	assert.Equal(t, "https://app.test/ok", in.SuccessURL)

	var stored users.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	require.NotNil(t, stored.StripeCustomerID)
	assert.Equal(t, in.CustomerID, *stored.StripeCustomerID)
	assert.Equal(t, u.ID, fake.Customers[in.CustomerID].Metadata["userId"])

	// second checkout reuses the customer
	w = call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"business"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, fake.Customers, 1)
	assert.Equal(t, "http://localhost:5173/dashboard/billing?success=true", fake.Checkouts[1].SuccessURL)
}

func TestCreateCheckoutSession_RecreatesDeletedCustomer(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	fake := stripetest.New()
	defer fake.Install()()

	u := testutil.CreateUser(t, db, "buyer@example.com", plans.Free)
	require.NoError(t, db.Model(&u).Update("stripe_customer_id", "cus_gone").Error)

	w := call(billingRouter(u), http.MethodPost, "/api/billing/checkout", `{"planId":"pro"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, fake.Customers, 1)
	assert.NotEqual(t, "cus_gone", fake.Checkouts[0].CustomerID)
}

func TestCreateCheckoutSession_Rejections(t *testing.T) {
	cfg := testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "buyer@example.com", plans.Free)
	r := billingRouter(u)

	fake := stripetest.New()
	restore := fake.Install()

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"free"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"platinum"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/billing/checkout", `{}`).Code)

	cfg.Stripe.PriceEnterprise = ""
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"enterprise"}`).Code)

	fake.Err = qstripe.ErrUnavailable
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"pro"}`).Code)

	fake.Err = errors.New("boom")
	assert.Equal(t, http.StatusBadGateway, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"pro"}`).Code)
	assert.Empty(t, fake.Checkouts)
	restore()

	defer qstripe.Use(nil)()
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodPost, "/api/billing/checkout", `{"planId":"pro"}`).Code)
}

func TestCreateBillingPortal(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	fake := stripetest.New()
	defer fake.Install()()

	u := testutil.CreateUser(t, db, "buyer@example.com", plans.Pro)
	assert.Equal(t, http.StatusConflict, call(billingRouter(u), http.MethodPost, "/api/billing/portal", "").Code)

	require.NoError(t, db.Model(&u).Update("stripe_customer_id", "cus_existing").Error)
	w := call(billingRouter(u), http.MethodPost, "/api/billing/portal", `{"returnUrl":"https://app.test/back"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://billing.stripe.test/cus_existing")
	assert.Equal(t, []string{"cus_existing"}, fake.Portals)
}

func TestGetSubscription(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	fake := stripetest.New()
	defer fake.Install()()

	u := testutil.CreateUser(t, db, "free@example.com", plans.Free)
	w := call(billingRouter(u), http.MethodGet, "/api/billing/subscription", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Subscription *billing.Subscription `json:"subscription"`
		Plan         plans.Plan            `json:"plan"`
		IsActive     bool                  `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.Subscription)
	assert.Equal(t, plans.Free, body.Plan.ID)
	assert.False(t, body.IsActive)

	activeSubscription(t, db, fake, u, plans.Business)
	w = call(billingRouter(u), http.MethodGet, "/api/billing/subscription", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Subscription)
	assert.Equal(t, "sub_1", body.Subscription.StripeSubscriptionID)
	assert.Equal(t, plans.Business, body.Plan.ID)
	assert.True(t, body.IsActive)
}

func TestCancelAndResume(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	fake := stripetest.New()
	defer fake.Install()()

	u := testutil.CreateUser(t, db, "pro@example.com", plans.Free)
	r := billingRouter(u)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/billing/cancel", "").Code)

	activeSubscription(t, db, fake, u, plans.Pro)

	w := call(r, http.MethodPost, "/api/billing/cancel", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, fake.Subscriptions["sub_1"].CancelAtPeriodEnd)

	sub, err := billing.LatestForUser(db, u.ID)
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)

	w = call(r, http.MethodPost, "/api/billing/resume", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, fake.Subscriptions["sub_1"].CancelAtPeriodEnd)

	sub, err = billing.LatestForUser(db, u.ID)
	require.NoError(t, err)
	assert.False(t, sub.CancelAtPeriodEnd)
}
