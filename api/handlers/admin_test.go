package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/api/handlers/mocks"
	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

func issueTestToken(t *testing.T, a *App) string {
	t.Helper()
	req := newRequest("POST", "/api/v1/auth/token", "")
	req.SetBasicAuth(testAdminEmail, testPassword)
	response := executeRequest(a, req)
	require.Equal(t, http.StatusOK, response.Code)

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), tok.ExpiresAt, time.Minute)
	return tok.Token
}

func TestCreateTokenHandler(t *testing.T) {
	a := newTestApp(t, mocks.NewReportStore(t))

	issueTestToken(t, a)

	req := newRequest("POST", "/api/v1/auth/token", "")
	req.SetBasicAuth(testAdminEmail, "wrong")
	assert.Equal(t, http.StatusUnauthorized, executeRequest(a, req).Code)

	assert.Equal(t, http.StatusUnauthorized, executeRequest(a, newRequest("POST", "/api/v1/auth/token", "")).Code)
}

func TestCreateTokenHandlerWithoutSigningKey(t *testing.T) {
	a := newTestApp(t, mocks.NewReportStore(t))
	conf := a.Config
	conf.JWTSecret = ""
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Guard = api.NewGuard(ctx, &conf)
	a.Router = a.New()

	req := newRequest("POST", "/api/v1/auth/token", "")
	req.SetBasicAuth(testAdminEmail, testPassword)
	response := executeRequest(a, req)

	assert.Equal(t, http.StatusInternalServerError, response.Code)
}

func TestUpdateReportHandler(t *testing.T) {
	s := mocks.NewReportStore(t)
	updated := models.Report{ID: 2, AnimalType: models.CategoryRaccoon, Latitude: 1, Longitude: 2}
	s.On("Update", mock.Anything, int64(2), mock.MatchedBy(func(r models.WildlifeReport) bool {
		return r.AnimalType == models.CategoryRaccoon && r.Latitude == 1 && r.Longitude == 2
	})).Return(updated, nil).Once()
	s.On("Update", mock.Anything, int64(9), mock.Anything).Return(models.Report{}, store.ErrNotFound).Once()
	s.On("Update", mock.Anything, int64(7), mock.Anything).Return(models.Report{}, store.ErrStoreUnavailable).Once()
	a := newTestApp(t, s)
	token := issueTestToken(t, a)

	patch := func(id, body string) *http.Request {
		req := newRequest("PATCH", "/api/v1/reports/"+id, body)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}
	body := `{"animalType":"raccoon","latitude":1,"longitude":2}`

	response := executeRequest(a, patch("2", body))
	require.Equal(t, http.StatusOK, response.Code)
	var got models.Report
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	assert.Equal(t, updated.AnimalType, got.AnimalType)

	assert.Equal(t, http.StatusNotFound, executeRequest(a, patch("9", body)).Code)
	assert.Equal(t, http.StatusBadGateway, executeRequest(a, patch("7", body)).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, patch("2", `{"animalType":"bear","latitude":1,"longitude":2}`)).Code)
	assert.Equal(t, http.StatusNotFound, executeRequest(a, patch("abc", body)).Code)
}

func TestUpdateReportHandlerKeepsReportTime(t *testing.T) {
	reported := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	s := mocks.NewReportStore(t)
	s.On("Update", mock.Anything, int64(2), mock.MatchedBy(func(r models.WildlifeReport) bool {
		return r.ReportTime.IsZero()
	})).Return(models.Report{ID: 2, AnimalType: models.CategoryRaccoon, ReportTime: reported}, nil).Once()
	s.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(r models.WildlifeReport) bool {
		return r.ReportTime.Equal(reported)
	})).Return(models.Report{ID: 3, ReportTime: reported}, nil).Once()
	a := newTestApp(t, s)

	patch := func(id, body string) *http.Request {
		req := newRequest("PATCH", "/api/v1/reports/"+id, body)
		req.SetBasicAuth(testAdminEmail, testPassword)
		return req
	}

	// fixing the animal type must not move the sighting in time
	response := executeRequest(a, patch("2", `{"animalType":"raccoon","latitude":1,"longitude":2}`))
	require.Equal(t, http.StatusOK, response.Code)
	var got models.Report
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	assert.True(t, reported.Equal(got.ReportTime))

	response = executeRequest(a, patch("3", `{"animalType":"fox","latitude":1,"longitude":2,"reportTime":"2024-06-01T09:30:00Z"}`))
	assert.Equal(t, http.StatusOK, response.Code)
}

func TestDeleteReportHandler(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
	s.On("Delete", mock.Anything, int64(3)).Return(store.ErrNotFound).Once()
	a := newTestApp(t, s)

	del := func(id string) *http.Request {
		req := newRequest("DELETE", "/api/v1/reports/"+id, "")
		req.SetBasicAuth(testAdminEmail, testPassword)
		return req
	}

	assert.Equal(t, http.StatusNoContent, executeRequest(a, del("2")).Code)
	assert.Equal(t, http.StatusNotFound, executeRequest(a, del("3")).Code)
}

func TestModerationRequiresAdmin(t *testing.T) {
	s := mocks.NewReportStore(t)
	a := newTestApp(t, s)

	// the public client key is not enough
	for _, method := range []string{"PATCH", "DELETE"} {
		req := publicRequest(method, "/api/v1/reports/2", `{"animalType":"fox","latitude":1,"longitude":2}`)
		assert.Equal(t, http.StatusUnauthorized, executeRequest(a, req).Code, method)

		req = newRequest(method, "/api/v1/reports/2", `{"animalType":"fox","latitude":1,"longitude":2}`)
		req.Header.Set("Authorization", "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, executeRequest(a, req).Code, method)
	}
	s.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	s.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoreErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, storeErrorStatus(store.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, storeErrorStatus(store.ErrValidationRejected))
	assert.Equal(t, http.StatusBadGateway, storeErrorStatus(store.ErrStoreUnavailable))
}
