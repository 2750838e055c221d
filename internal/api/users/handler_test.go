package usersapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func meRouter(u users.User) *gin.Engine {
	r := gin.New()
	r.GET("/me", testutil.AsUser(u), GetCurrentUser)
	r.PUT("/me", testutil.AsUser(u), UpdateCurrentUser)
	r.GET("/verify", VerifyEmail)
	return r
}

func TestGetCurrentUser(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "pro@example.com", plans.Pro)
	testutil.CreateSite(t, db, u, "a")

	w := httptest.NewRecorder()
	meRouter(u).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, u.ID, got.User.ID)
	assert.Equal(t, plans.Pro, got.Billing.Plan)
	assert.Equal(t, plans.Pro, got.Access.Plan.ID)
	assert.Equal(t, 1, got.Access.Usage.Sites)
	assert.True(t, got.Access.CanAddSite)
	assert.True(t, got.Access.CanAcceptFeedback)
	assert.Contains(t, got.Access.Capabilities, string(plans.FeatureDataExport))
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetCurrentUser_LapsedPlan(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "lapsed@example.com", plans.Business)
	require.NoError(t, db.Model(&u).Updates(map[string]interface{}{
		"subscription_status": "canceled",
		"current_period_end":  time.Now().Add(-time.Hour),
	}).Error)
	testutil.CreateSite(t, db, u, "a")

	w := httptest.NewRecorder()
	meRouter(u).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, plans.Business, got.Billing.Plan)
	assert.Equal(t, "canceled", got.Billing.SubscriptionStatus)
	assert.Equal(t, plans.Free, got.Access.Plan.ID)
	assert.False(t, got.Access.CanAddSite)
}

func TestUpdateCurrentUser(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "me@example.com", plans.Free)

	req := httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"name":" Ada ","company_name":"Acme","email_notifications":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	meRouter(u).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored users.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, "Acme", stored.CompanyName)
	assert.False(t, stored.EmailNotifications)
	assert.Equal(t, plans.Free, stored.Plan)
}

func TestVerifyEmail(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "new@example.com", plans.Free)
	require.NoError(t, db.Model(&u).Update("is_verified", false).Error)

	require.NoError(t, db.Create(&users.VerificationToken{
		UserID: u.ID, Token: "good", Type: users.TokenVerifyEmail, ExpiresAt: time.Now().Add(time.Hour),
	}).Error)
	require.NoError(t, db.Create(&users.VerificationToken{
		UserID: u.ID, Token: "old", Type: users.TokenVerifyEmail, ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&users.VerificationToken{
		UserID: u.ID, Token: "reset", Type: users.TokenPasswordReset, ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	r := meRouter(u)
	for _, tok := range []string{"", "missing", "old", "reset"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token="+tok, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, tok)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token=good", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://localhost:5173/signin?verified=1", w.Header().Get("Location"))

	var stored users.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.True(t, stored.IsVerified)

	var n int64
	require.NoError(t, db.Model(&users.VerificationToken{}).Where("token = ?", "good").Count(&n).Error)
	assert.Zero(t, n)
}
