package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/Kevinm360/Sankey-Diagram/pkg/common/logger"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/models"
)

type Handler struct {
	service *Service
	repo    *Repository
	cache   *redis.Client
}

func NewHandler(service *Service, repo *Repository, cache *redis.Client) *Handler {
	return &Handler{service: service, repo: repo, cache: cache}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/runs", h.handleCreateRun).Methods(http.MethodPost)
	r.HandleFunc("/runs", h.handleListRuns).Methods(http.MethodGet)
	r.HandleFunc("/runs/{id}", h.handleGetRun).Methods(http.MethodGet)
	r.HandleFunc("/runs/{id}/diagram", h.handleGetDiagram).Methods(http.MethodGet)
	r.HandleFunc("/diagram/latest", h.handleLatestDiagram).Methods(http.MethodGet)
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req models.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cfg := Config{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Title:      req.Title,
		Palette:    req.Palette,
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.Run(r.Context(), cfg)
	if err != nil {
		logger.Log.WithError(err).Error("Pipeline run failed")
		http.Error(w, "pipeline run failed", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"run": report})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.List(r.Context(), parseLimit(r, 50))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": runs})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"run": run})
}

func (h *Handler) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	if len(run.Diagram) == 0 {
		http.Error(w, "run has no diagram", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(run.Diagram)
}

func (h *Handler) handleLatestDiagram(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		http.Error(w, "diagram cache not configured", http.StatusNotFound)
		return
	}
	encoded, err := h.cache.Get(r.Context(), latestDiagramKey).Bytes()
	if err == redis.Nil {
		http.Error(w, "no diagram cached", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read diagram cache")
		http.Error(w, "failed to read diagram cache", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}

func (h *Handler) lookupRun(w http.ResponseWriter, r *http.Request) (*RunModel, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return nil, false
	}
	run, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to get run")
		http.Error(w, "failed to get run", http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}
