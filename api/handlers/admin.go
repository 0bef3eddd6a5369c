package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/config"
)

// Admin serves token issuance and report moderation. Updates and deletes
// reach open reporting views through the change feed.
type Admin struct {
	Store ReportStore
	Guard *api.Guard
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateTokenHandler exchanges admin basic credentials for a bearer token
func (h Admin) CreateTokenHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.Guard.AuthenticateBasic(r)
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	token, expires, err := h.Guard.IssueToken(info.UserName())
	if err != nil {
		if errors.Is(err, api.ErrNoSigningKey) {
			config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, err)
			return
		}
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
}

// UpdateReportHandler overwrites a report's sighting fields. The stored
// reportTime is kept unless the body sets one.
func (h Admin) UpdateReportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		config.ErrorStatus("invalid report id", http.StatusBadRequest, w, err)
		return
	}
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	report, err := req.toPatch(time.Now())
	if err != nil {
		config.ErrorStatus("invalid report", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	row, err := h.Store.Update(ctx, id, report)
	if err != nil {
		config.ErrorStatus("failed to update report", storeErrorStatus(err), w, err)
		return
	}
	zap.S().Infow("report updated", "id", id)
	writeJSON(w, http.StatusOK, row)
}

// DeleteReportHandler removes a report
func (h Admin) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		config.ErrorStatus("invalid report id", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		config.ErrorStatus("failed to delete report", storeErrorStatus(err), w, err)
		return
	}
	zap.S().Infow("report deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func reportID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["report_id"], 10, 64)
}
