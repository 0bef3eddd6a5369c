package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckRoute(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	New().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	req, _ := http.NewRequest("GET", "/asdf", nil)
	rr := httptest.NewRecorder()

	New().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
