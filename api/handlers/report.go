package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/config"
	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/reporting"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

const (
	maxRecentLimit      = 100
	submitFailedMessage = "Failed to submit report. Please try again."
	loadFailedMessage   = "Failed to load recent reports."
)

// Report serves the public report endpoints
type Report struct {
	Store  ReportStore
	Window int
}

type reportRequest struct {
	AnimalType string     `json:"animalType"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	ReportTime *time.Time `json:"reportTime,omitempty"`
}

// maxClockSkew is how far ahead of the server clock a client reportTime may be
const maxClockSkew = 5 * time.Minute

var errFutureReportTime = errors.New("report time is in the future")

// toReport applies the same checks the reporting form does before any store
// call. A missing reportTime is stamped with now.
func (req reportRequest) toReport(now time.Time) (models.WildlifeReport, error) {
	report, err := req.toPatch(now)
	if err != nil {
		return models.WildlifeReport{}, err
	}
	if report.ReportTime.IsZero() {
		report.ReportTime = now
	}
	return report, nil
}

// toPatch is toReport for moderation edits: a missing reportTime stays zero so
// the stored one is kept.
func (req reportRequest) toPatch(now time.Time) (models.WildlifeReport, error) {
	if req.AnimalType == "" || req.Latitude == nil || req.Longitude == nil {
		return models.WildlifeReport{}, reporting.ErrIncompleteReport
	}
	category, err := models.ParseCategory(req.AnimalType)
	if err != nil {
		return models.WildlifeReport{}, err
	}
	loc := models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := loc.Validate(); err != nil {
		return models.WildlifeReport{}, err
	}
	report := models.WildlifeReport{
		AnimalType: category,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
	}
	if req.ReportTime != nil && !req.ReportTime.IsZero() {
		if req.ReportTime.After(now.Add(maxClockSkew)) {
			return models.WildlifeReport{}, fmt.Errorf("%w: %s", errFutureReportTime, req.ReportTime.Format(time.RFC3339))
		}
		report.ReportTime = *req.ReportTime
	}
	return report, nil
}

// RecentReportsHandler returns the most recent reports, newest first
func (re Report) RecentReportsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", re.Window)
	if err != nil || limit < 1 || limit > maxRecentLimit {
		config.ErrorStatus("limit must be between 1 and 100", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	reports, err := re.Store.FetchRecent(ctx, limit)
	if err != nil {
		config.ErrorStatus(loadFailedMessage, http.StatusBadGateway, w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// CreateReportHandler stores one sighting
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	report, err := req.toReport(time.Now())
	if err != nil {
		config.ErrorStatus("invalid report", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	row, err := re.Store.Insert(ctx, report)
	if err != nil {
		// rejected and unavailable look the same to the reporter
		config.ErrorStatus(submitFailedMessage, http.StatusBadGateway, w, err)
		return
	}
	zap.S().Infow("report created", "id", row.ID, "animalType", row.AnimalType, "requestId", api.RequestID(r.Context()))
	writeJSON(w, http.StatusCreated, row)
}

// AllReportsHandler returns the raw collection in insertion order. Without a
// limit every row is returned.
func (re Report) AllReportsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		config.ErrorStatus("invalid page", http.StatusBadRequest, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		config.ErrorStatus("invalid limit", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	reports, err := re.Store.FetchPage(ctx, page, limit)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusBadGateway, w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrValidationRejected):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
