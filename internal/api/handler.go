// Package api exposes the leaderboard over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/verte-zerg/speedtype/internal/identity"
	"github.com/verte-zerg/speedtype/internal/model"
)

const maxLimit = 100

// UserHeader carries the optional viewer identity.
const UserHeader = "X-Speedtype-User"

// LeaderboardSource answers leaderboard queries.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, f model.LeaderboardFilter) ([]model.LeaderboardEntry, error)
	Ping(ctx context.Context) error
}

// Handler serves leaderboard requests.
type Handler struct {
	src    LeaderboardSource
	logger *slog.Logger
}

// NewHandler creates a Handler backed by src.
func NewHandler(src LeaderboardSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{src: src, logger: logger}
}

// Router returns the HTTP routes with chi middleware applied.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(viewer)

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", h.leaderboard)
	})
	return r
}

// leaderboardResponse is the /api/leaderboard body. ViewerBest is the
// viewer's highest entry on this page, if any.
type leaderboardResponse struct {
	Timeframe  model.Timeframe          `json:"timeframe"`
	Duration   string                   `json:"duration"`
	Entries    []model.LeaderboardEntry `json:"entries"`
	Viewer     string                   `json:"viewer,omitempty"`
	ViewerBest *model.LeaderboardEntry  `json:"viewer_best,omitempty"`
}

// viewer stores a valid UserHeader value in the request context.
func viewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := identity.Normalize(r.Header.Get(UserHeader)); ok {
			r = r.WithContext(identity.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.src.Leaderboard(r.Context(), filter)
	if err != nil {
		h.logger.Error("Leaderboard query failed", "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
		Error(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	duration := "all"
	if filter.Duration != 0 {
		duration = strconv.Itoa(int(filter.Duration))
	}
	resp := leaderboardResponse{
		Timeframe: filter.Timeframe,
		Duration:  duration,
		Entries:   entries,
	}
	if id, ok := (identity.ContextProvider{}).UserID(r.Context()); ok {
		resp.Viewer = id
		for i := range entries {
			if entries[i].UserID == id {
				resp.ViewerBest = &entries[i]
				break
			}
		}
	}
	JSON(w, http.StatusOK, resp)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.src.Ping(r.Context()); err != nil {
		h.logger.Warn("Health check failed", "error", err)
		Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseFilter(r *http.Request) (model.LeaderboardFilter, error) {
	q := r.URL.Query()
	tf, err := model.ParseTimeframe(q.Get("timeframe"))
	if err != nil {
		return model.LeaderboardFilter{}, err
	}
	d, err := model.ParseDurationFilter(q.Get("duration"))
	if err != nil {
		return model.LeaderboardFilter{}, err
	}
	limit := model.DefaultLeaderSize
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return model.LeaderboardFilter{}, errors.New("limit must be a positive integer")
		}
		limit = min(n, maxLimit)
	}
	return model.LeaderboardFilter{Timeframe: tf, Duration: d, Limit: limit}, nil
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
