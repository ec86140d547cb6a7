package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// The API mixes static segments and path parameters at the same tree
// position (/dishes/recipes/suggest next to /dishes/:id/recipes). All of
// them must register without conflict and dispatch to a handler; an
// unauthenticated request reaching the auth guard (401) proves the route
// matched, while 404 would mean it did not.
func TestRouterRegistersDocumentedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := setupRouter()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/dishes"},
		{http.MethodGet, "/dishes"},
		{http.MethodGet, "/dishes/d1"},
		{http.MethodDelete, "/dishes/d1"},
		{http.MethodPost, "/dishes/d1/recipes"},
		{http.MethodGet, "/dishes/d1/recipes"},
		{http.MethodPost, "/dishes/recipes/suggest"},
		{http.MethodGet, "/dishes/recipes/filter"},
		{http.MethodGet, "/dishes/recipes/favorites"},
		{http.MethodGet, "/dishes/recipes/r1"},
		{http.MethodDelete, "/dishes/recipes/r1"},
		{http.MethodPut, "/dishes/recipes/r1/favorite"},
		{http.MethodPost, "/dishes/recipes/r1/photo"},
		{http.MethodDelete, "/dishes/recipes/r1/photo"},
		{http.MethodGet, "/recipes/r1/tts/step/1"},
		{http.MethodPost, "/recipes/r1/tts/generate"},
		{http.MethodGet, "/users/me/limits"},
		{http.MethodGet, "/admin/dashboard"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
