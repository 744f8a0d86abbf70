package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"stock-scout/config"
	"stock-scout/models"
	"stock-scout/observability"
	"stock-scout/scoring"
	"stock-scout/services"
	"stock-scout/universe"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ScreenerService defines the screening operations the API exposes.
type ScreenerService interface {
	RunScreen(ctx context.Context, spec models.UniverseSpec, overrides scoring.CatalystOverrides) (*models.ScreeningRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.ScreeningRun, error)
	GetLatestRun(ctx context.Context) (*models.ScreeningRun, error)
	GetRunHistory(ctx context.Context, limit int) ([]*models.ScreeningRun, error)
	GetLatestPicks(ctx context.Context) ([]models.FinalResult, error)
}

// HealthChecker reports backing-store health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler handles HTTP API requests
type Handler struct {
	screener ScreenerService // nil when the screener is not configured
	db       HealthChecker   // nil when no database is configured
	cfg      *config.Config

	// running guards against overlapping screening runs.
	running atomic.Bool
}

// NewHandler creates a new Handler
func NewHandler(screener ScreenerService, db HealthChecker, cfg *config.Config) *Handler {
	return &Handler{screener: screener, db: db, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.db != nil {
		if err := h.db.Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	// Add circuit breaker status
	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus

	// Check if any breakers are open (degraded state)
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleRunScreener triggers a screening run in the background. The run is
// long (minutes against a full index), so the response is an immediate 202
// and results are fetched through the run endpoints.
func (h *Handler) HandleRunScreener(w http.ResponseWriter, r *http.Request) {
	if h.screener == nil {
		h.jsonError(w, "Screener not configured", http.StatusServiceUnavailable)
		return
	}

	spec := universe.SpecFromConfig(h.cfg.Universe)
	var body models.UniverseSpec
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Mode != "" {
		spec = body
	}

	if !h.running.CompareAndSwap(false, true) {
		h.jsonError(w, "A screening run is already in progress", http.StatusConflict)
		return
	}

	go func() {
		defer h.running.Store(false)
		if _, err := h.screener.RunScreen(context.Background(), spec, scoring.CatalystOverrides{}); err != nil {
			observability.Error("background screening run failed", "error", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "started",
		"mode":   string(spec.Mode),
	})
}

// HandleGetLatestRun returns the most recent screening run
func (h *Handler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	if h.screener == nil {
		h.jsonError(w, "Screener not configured", http.StatusServiceUnavailable)
		return
	}

	run, err := h.screener.GetLatestRun(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		h.jsonResponse(w, map[string]interface{}{"run": nil})
		return
	}

	h.jsonResponse(w, run)
}

// HandleGetRuns returns screening run history
func (h *Handler) HandleGetRuns(w http.ResponseWriter, r *http.Request) {
	if h.screener == nil {
		h.jsonError(w, "Screener not configured", http.StatusServiceUnavailable)
		return
	}

	limit := h.ParseLimitParam(r, 10)

	runs, err := h.screener.GetRunHistory(r.Context(), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*models.ScreeningRun{}
	}

	h.jsonResponse(w, runs)
}

// HandleGetRun returns a specific screening run by ID
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	if h.screener == nil {
		h.jsonError(w, "Screener not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, "Invalid run ID", http.StatusBadRequest)
		return
	}

	run, err := h.screener.GetRun(r.Context(), id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		h.jsonError(w, "Screening run not found", http.StatusNotFound)
		return
	}

	h.jsonResponse(w, run)
}

// HandleGetTopPicks returns the top picks from the latest completed run
func (h *Handler) HandleGetTopPicks(w http.ResponseWriter, r *http.Request) {
	if h.screener == nil {
		h.jsonError(w, "Screener not configured", http.StatusServiceUnavailable)
		return
	}

	picks, err := h.screener.GetLatestPicks(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if picks == nil {
		picks = []models.FinalResult{}
	}

	h.jsonResponse(w, picks)
}

// ParseLimitParam parses the limit query parameter
func (h *Handler) ParseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
