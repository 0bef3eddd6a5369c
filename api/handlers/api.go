package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/config"
	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/reporting"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

// RequestTimeout bounds every REST request
const RequestTimeout = 30 * time.Second

// ReportStore is everything the HTTP surface needs from the store client
type ReportStore interface {
	reporting.ReportStore
	FetchPage(ctx context.Context, page, limit int) ([]models.Report, error)
	Update(ctx context.Context, id int64, report models.WildlifeReport) (models.Report, error)
	Delete(ctx context.Context, id int64) error
}

// App stores the router and store client, so it can be reused
type App struct {
	Router  *mux.Router
	Config  config.Config
	Guard   *api.Guard
	Metrics *api.MetricsCollector

	client *store.Client
	store  ReportStore
	views  *Views
}

// Initialize is invoked by main to connect with the store and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := store.Dial(ctx, &a.Config)
	if err != nil {
		// without a store there is nothing to serve
		zap.S().Errorw("failed to connect to report store", "error", err)
		return err
	}
	a.client = client
	a.setup(ctx, client)
	return nil
}

func (a *App) setup(ctx context.Context, s ReportStore) {
	a.store = s
	a.Guard = api.NewGuard(ctx, &a.Config)
	a.Metrics = api.NewMetricsCollector(10000, time.Hour)
	a.views = NewViews(s, a.Config.RecentWindow)
	a.Router = a.New()
}

// Client returns the store client dialed by Initialize
func (a *App) Client() *store.Client {
	return a.client
}

// Close ends open reporting views, stops metrics and disconnects the store
func (a *App) Close(ctx context.Context) error {
	if a.views != nil {
		a.views.Close()
	}
	if a.Metrics != nil {
		a.Metrics.Stop()
	}
	if a.client != nil {
		return a.client.Close(ctx)
	}
	return nil
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := api.New()

	rest := func(h http.HandlerFunc) http.Handler {
		return a.Metrics.MetricsMiddleware(api.TimeoutMiddleware(RequestTimeout)(h))
	}
	public := func(h http.HandlerFunc) http.Handler {
		return rest(api.ClientKeyMiddleware(a.Config.ClientKey)(h).ServeHTTP)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return rest(a.Guard.Middleware(h).ServeHTTP)
	}

	rep := Report{Store: a.store, Window: a.Config.RecentWindow}
	adm := Admin{Store: a.store, Guard: a.Guard}
	dump := Dump{Store: a.store}
	m := MetricsHandler{Metrics: a.Metrics}

	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	apiV1.Handle("/categories", rest(CategoriesHandler)).Methods("GET")

	apiV1.Handle("/reports", public(rep.RecentReportsHandler)).Methods("GET")
	apiV1.Handle("/reports", public(rep.CreateReportHandler)).Methods("POST")
	apiV1.Handle("/reports/all", public(rep.AllReportsHandler)).Methods("GET")
	apiV1.Handle("/reports/{report_id:[0-9]+}", admin(adm.UpdateReportHandler)).Methods("PATCH")
	apiV1.Handle("/reports/{report_id:[0-9]+}", admin(adm.DeleteReportHandler)).Methods("DELETE")

	apiV1.Handle("/auth/token", rest(adm.CreateTokenHandler)).Methods("POST")
	apiV1.Handle("/metrics", a.Guard.Middleware(http.HandlerFunc(m.GetMetricsHandler))).Methods("GET")

	r.Handle("/dump", rest(dump.DumpPageHandler)).Methods("GET")

	// websockets are long lived: metrics only, no request timeout
	r.Handle("/ws/reports", a.Metrics.MetricsMiddleware(
		api.ClientKeyMiddleware(a.Config.ClientKey)(http.HandlerFunc(a.views.ServeWS)))).Methods("GET")

	return r
}
