package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/config"
	templates "github.com/linesmerrill/wildlife-watch-api/templates/html"
)

// Dump serves the raw collection page
type Dump struct {
	Store ReportStore
}

// DumpPageHandler renders every stored report, unfiltered
func (d Dump) DumpPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	reports, err := d.Store.FetchPage(ctx, 1, 0)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusBadGateway, w, err)
		return
	}

	var buf bytes.Buffer
	if err := templates.RenderDumpPage(&buf, reports, time.Now().UTC()); err != nil {
		config.ErrorStatus("failed to render page", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
