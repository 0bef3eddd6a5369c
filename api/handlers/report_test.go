package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/wildlife-watch-api/api/handlers/mocks"
	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/reporting"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

var sampleRows = []models.Report{
	{ID: 3, AnimalType: models.CategoryFox, Latitude: 42.36, Longitude: -71.06},
	{ID: 2, AnimalType: models.CategoryRat, Latitude: 42.35, Longitude: -71.05},
	{ID: 1, AnimalType: models.CategoryBunny, Latitude: 42.34, Longitude: -71.04},
}

func TestRecentReportsHandler(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchRecent", mock.Anything, 5).Return(sampleRows, nil).Once()
	a := newTestApp(t, s)

	response := executeRequest(a, publicRequest("GET", "/api/v1/reports", ""))
	require.Equal(t, http.StatusOK, response.Code)

	var got []models.Report
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	assert.Equal(t, sampleRows, got)
}

func TestRecentReportsHandlerRequiresClientKey(t *testing.T) {
	a := newTestApp(t, mocks.NewReportStore(t))

	response := executeRequest(a, newRequest("GET", "/api/v1/reports", ""))

	assert.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestRecentReportsHandlerLimits(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchRecent", mock.Anything, 20).Return([]models.Report{}, nil).Once()
	a := newTestApp(t, s)

	assert.Equal(t, http.StatusOK, executeRequest(a, publicRequest("GET", "/api/v1/reports?limit=20", "")).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, publicRequest("GET", "/api/v1/reports?limit=0", "")).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, publicRequest("GET", "/api/v1/reports?limit=101", "")).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, publicRequest("GET", "/api/v1/reports?limit=five", "")).Code)
}

func TestRecentReportsHandlerStoreDown(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchRecent", mock.Anything, 5).Return(nil, store.ErrStoreUnavailable).Once()
	a := newTestApp(t, s)

	response := executeRequest(a, publicRequest("GET", "/api/v1/reports", ""))

	assert.Equal(t, http.StatusBadGateway, response.Code)
	assert.Contains(t, response.Body.String(), loadFailedMessage)
}

func TestCreateReportHandler(t *testing.T) {
	reported := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	want := models.WildlifeReport{AnimalType: models.CategoryFox, Latitude: 42.36, Longitude: -71.06, ReportTime: reported}
	row := models.Report{ID: 4, AnimalType: want.AnimalType, Latitude: want.Latitude, Longitude: want.Longitude, ReportTime: reported}

	s := mocks.NewReportStore(t)
	s.On("Insert", mock.Anything, mock.MatchedBy(func(r models.WildlifeReport) bool {
		return r.AnimalType == want.AnimalType && r.Latitude == want.Latitude &&
			r.Longitude == want.Longitude && r.ReportTime.Equal(reported)
	})).Return(row, nil).Once()
	a := newTestApp(t, s)

	body := `{"animalType":"fox","latitude":42.36,"longitude":-71.06,"reportTime":"2024-06-01T12:00:00Z"}`
	response := executeRequest(a, publicRequest("POST", "/api/v1/reports", body))
	require.Equal(t, http.StatusCreated, response.Code)

	var got models.Report
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, models.CategoryFox, got.AnimalType)
}

func TestCreateReportHandlerStampsReportTime(t *testing.T) {
	before := time.Now()
	s := mocks.NewReportStore(t)
	s.On("Insert", mock.Anything, mock.MatchedBy(func(r models.WildlifeReport) bool {
		return !r.ReportTime.Before(before) && r.ReportTime.Before(before.Add(time.Minute))
	})).Return(models.Report{ID: 5}, nil).Once()
	a := newTestApp(t, s)

	response := executeRequest(a, publicRequest("POST", "/api/v1/reports", `{"animalType":"rat","latitude":0,"longitude":0}`))

	assert.Equal(t, http.StatusCreated, response.Code)
}

func TestCreateReportHandlerRejectsBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"animalType":`, "failed to decode request body"},
		{"no location", `{"animalType":"fox"}`, reporting.ErrIncompleteReport.Error()},
		{"no category", `{"latitude":1,"longitude":2}`, reporting.ErrIncompleteReport.Error()},
		{"unknown category", `{"animalType":"bear","latitude":1,"longitude":2}`, "unknown animal type"},
		{"latitude out of range", `{"animalType":"fox","latitude":91,"longitude":2}`, "invalid location"},
		{"longitude out of range", `{"animalType":"fox","latitude":1,"longitude":-181}`, "invalid location"},
		{"report time in the future", `{"animalType":"fox","latitude":1,"longitude":2,"reportTime":"2999-01-01T00:00:00Z"}`, "report time is in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mocks.NewReportStore(t)
			a := newTestApp(t, s)

			response := executeRequest(a, publicRequest("POST", "/api/v1/reports", tt.body))

			assert.Equal(t, http.StatusBadRequest, response.Code)
			assert.Contains(t, response.Body.String(), tt.want)
			s.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateReportHandlerStoreFailure(t *testing.T) {
	for _, storeErr := range []error{store.ErrStoreUnavailable, store.ErrValidationRejected} {
		s := mocks.NewReportStore(t)
		s.On("Insert", mock.Anything, mock.Anything).Return(models.Report{}, storeErr).Once()
		a := newTestApp(t, s)

		response := executeRequest(a, publicRequest("POST", "/api/v1/reports", `{"animalType":"fox","latitude":1,"longitude":2}`))

		assert.Equal(t, http.StatusBadGateway, response.Code)
		assert.Contains(t, response.Body.String(), submitFailedMessage)
	}
}

func TestAllReportsHandler(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchPage", mock.Anything, 1, 0).Return(sampleRows, nil).Once()
	s.On("FetchPage", mock.Anything, 2, 10).Return([]models.Report{}, nil).Once()
	s.On("FetchPage", mock.Anything, 3, 10).Return(nil, errors.New("socket closed")).Once()
	a := newTestApp(t, s)

	response := executeRequest(a, publicRequest("GET", "/api/v1/reports/all", ""))
	require.Equal(t, http.StatusOK, response.Code)
	var got []models.Report
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	assert.Len(t, got, 3)

	assert.Equal(t, http.StatusOK, executeRequest(a, publicRequest("GET", "/api/v1/reports/all?page=2&limit=10", "")).Code)
	assert.Equal(t, http.StatusBadGateway, executeRequest(a, publicRequest("GET", "/api/v1/reports/all?page=3&limit=10", "")).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, publicRequest("GET", "/api/v1/reports/all?limit=-1", "")).Code)
	assert.Equal(t, http.StatusBadRequest, executeRequest(a, publicRequest("GET", "/api/v1/reports/all?page=x", "")).Code)
}

func TestDumpPageHandler(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchPage", mock.Anything, 1, 0).Return(sampleRows, nil).Once()
	a := newTestApp(t, s)

	// the dump page is for humans and needs no client key
	response := executeRequest(a, newRequest("GET", "/dump", ""))

	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "text/html; charset=utf-8", response.Header().Get("Content-Type"))
	assert.Contains(t, response.Body.String(), "3 rows")
	assert.Contains(t, response.Body.String(), "<td>bunny</td>")
}

func TestDumpPageHandlerStoreDown(t *testing.T) {
	s := mocks.NewReportStore(t)
	s.On("FetchPage", mock.Anything, 1, 0).Return(nil, store.ErrStoreUnavailable).Once()
	a := newTestApp(t, s)

	response := executeRequest(a, newRequest("GET", "/dump", ""))

	assert.Equal(t, http.StatusBadGateway, response.Code)
}

func TestCreateReportHandlerAllowsSmallClockSkew(t *testing.T) {
	ahead := time.Now().Add(time.Minute).UTC().Truncate(time.Second)
	s := mocks.NewReportStore(t)
	s.On("Insert", mock.Anything, mock.MatchedBy(func(r models.WildlifeReport) bool {
		return r.ReportTime.Equal(ahead)
	})).Return(models.Report{ID: 6}, nil).Once()
	a := newTestApp(t, s)

	body := `{"animalType":"rat","latitude":0,"longitude":0,"reportTime":"` + ahead.Format(time.RFC3339) + `"}`
	response := executeRequest(a, publicRequest("POST", "/api/v1/reports", body))

	assert.Equal(t, http.StatusCreated, response.Code)
}
