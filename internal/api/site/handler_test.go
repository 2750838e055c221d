package siteapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/plans"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/domain/users"
	"quickfeedback/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func router(u users.User) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/sites", testutil.AsUser(u))
	g.GET("", ListSites)
	g.POST("", CreateSite)
	g.GET("/:id", GetSite)
	g.PUT("/:id", UpdateSite)
	g.DELETE("/:id", DeleteSite)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
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

func TestCreateSite(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "owner@example.com", plans.Free)
	r := router(u)

	w := do(r, http.MethodPost, "/api/sites", `{"name":"Acme","url":" https://acme.test/ "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got SiteDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, "https://acme.test", got.URL)
	assert.Contains(t, got.EmbedCode, `src="http://localhost:8080/widget.js"`)
	assert.Contains(t, got.EmbedCode, `data-site-id="`+got.ID+`"`)
}

func TestCreateSite_Validation(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	r := router(testutil.CreateUser(t, db, "owner@example.com", plans.Free))

	for _, body := range []string{
		`{"name":"Acme"}`,
		`{"url":"https://acme.test"}`,
		`{"name":"Acme","url":"ftp://acme.test"}`,
		`{"name":"Acme","url":"acme.test"}`,
	} {
		w := do(r, http.MethodPost, "/api/sites", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCreateSite_PlanLimit(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)

	free := testutil.CreateUser(t, db, "free@example.com", plans.Free)
	testutil.CreateSite(t, db, free, "first")

	w := do(router(free), http.MethodPost, "/api/sites", `{"name":"second","url":"https://second.test"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Your Free plan allows up to 1 sites. Please upgrade to add more sites."}`, w.Body.String())

	pro := testutil.CreateUser(t, db, "pro@example.com", plans.Pro)
	for i := 0; i < 5; i++ {
		w = do(router(pro), http.MethodPost, "/api/sites", `{"name":"s","url":"https://s.test"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = do(router(pro), http.MethodPost, "/api/sites", `{"name":"s","url":"https://s.test"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Your Pro plan allows up to 5 sites")

	ent := testutil.CreateUser(t, db, "ent@example.com", plans.Enterprise)
	for i := 0; i < 25; i++ {
		testutil.CreateSite(t, db, ent, "bulk")
	}
	w = do(router(ent), http.MethodPost, "/api/sites", `{"name":"more","url":"https://more.test"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSiteOwnership(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", plans.Free)
	intruder := testutil.CreateUser(t, db, "intruder@example.com", plans.Free)
	s := testutil.CreateSite(t, db, owner, "acme")

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"name":"hijacked"}`},
		{http.MethodDelete, ""},
	} {
		w := do(router(intruder), tc.method, "/api/sites/"+s.ID, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method)
	}

	w := do(router(intruder), http.MethodGet, "/api/sites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	var stored site.Site
	require.NoError(t, db.First(&stored, "id = ?", s.ID).Error)
	assert.Equal(t, "acme", stored.Name)
}

func TestUpdateSite(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", plans.Free)
	s := testutil.CreateSite(t, db, owner, "acme")
	r := router(owner)

	w := do(r, http.MethodPut, "/api/sites/"+s.ID, `{"name":"Acme Inc","url":"http://acme.test/shop/"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored site.Site
	require.NoError(t, db.First(&stored, "id = ?", s.ID).Error)
	assert.Equal(t, "Acme Inc", stored.Name)
	assert.Equal(t, "http://acme.test/shop", stored.URL)

	w = do(r, http.MethodPut, "/api/sites/"+s.ID, `{"url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSite_CascadesFeedback(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com", plans.Free)
	s := testutil.CreateSite(t, db, owner, "acme")
	keep := testutil.CreateSite(t, db, testutil.CreateUser(t, db, "other@example.com", plans.Free), "other")
	require.NoError(t, db.Create(&feedback.Feedback{SiteID: s.ID, Rating: 4}).Error)
	require.NoError(t, db.Create(&feedback.Feedback{SiteID: keep.ID, Rating: 4}).Error)

	w := do(router(owner), http.MethodDelete, "/api/sites/"+s.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var sites, fb int64
	require.NoError(t, db.Model(&site.Site{}).Count(&sites).Error)
	require.NoError(t, db.Model(&feedback.Feedback{}).Count(&fb).Error)
	assert.EqualValues(t, 1, sites)
	assert.EqualValues(t, 1, fb)
}
