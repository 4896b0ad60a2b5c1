package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/txtlog"
	"github.com/claude/liftlog/internal/instrumentation"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the repository surface the handlers use directly.
type Store interface {
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
	AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error)
	InsertBodyMeasurement(ctx context.Context, r models.BodyMeasurementRow) (int64, error)
	UpsertBodyComposition(ctx context.Context, c models.BodyComposition) (int64, error)
	DeleteSession(ctx context.Context, id int64) error
}

// Reports serves memoized metric views.
type Reports interface {
	Metrics(ctx context.Context, month string) (json.RawMessage, error)
	Group(ctx context.Context, month, name string) (json.RawMessage, error)
	Sets(ctx context.Context, month, exercise string) (json.RawMessage, error)
	KPI(ctx context.Context, month string) (json.RawMessage, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	Invalidate()
}

// Importer stages and commits workout text logs.
type Importer interface {
	Stage(ctx context.Context, name string, content []byte, date *time.Time) (*txtlog.Plan, error)
	Plan(ctx context.Context, importID string, date *time.Time) (*txtlog.Plan, error)
	ConfirmAlias(ctx context.Context, importID, name string, exerciseID int64) (*txtlog.Plan, error)
	AddExercise(ctx context.Context, importID, name string, e models.Exercise) (*txtlog.Plan, error)
	Commit(ctx context.Context, importID string, date *time.Time) (*ingest.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	reports  Reports
	importer Importer
	inst     *instrumentation.Instrumentation
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, reports Reports, importer Importer, inst *instrumentation.Instrumentation, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		reports:  reports,
		importer: importer,
		inst:     inst,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.inst))
	s.router.Use(CORS)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints (no auth, tsnet handles access)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/metrics/{group}", s.handleMetricGroup)
		r.Get("/sets", s.handleSets)
		r.Get("/kpi", s.handleKPI)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/stats", s.handleStats)
		r.Get("/import-logs", s.handleImportLogs)

		// Write endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/exercises", s.handleAddExercise)
			r.Post("/body/measurements", s.handleAddMeasurement)
			r.Post("/body/composition", s.handleAddComposition)
			r.Delete("/sessions/{id}", s.handleDeleteSession)

			r.Route("/import/txt", func(r chi.Router) {
				r.Post("/", s.handleStageImport)
				r.Get("/{id}", s.handleImportPlan)
				r.Post("/{id}/aliases", s.handleConfirmAlias)
				r.Post("/{id}/exercises", s.handleImportAddExercise)
				r.Post("/{id}/commit", s.handleCommitImport)
			})
		})
	})
}

// SetMCP mounts the MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
