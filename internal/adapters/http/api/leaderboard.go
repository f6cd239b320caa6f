package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tyresmoke/burnboard/internal/domain/leaderboard"
	"github.com/tyresmoke/burnboard/internal/domain/model"
)

// LeaderboardService is the standings surface the handlers call.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, roundID, classID string, metric leaderboard.Metric) ([]model.LeaderboardRow, error)
	CumulativeLeaderboard(ctx context.Context, classID string, metric leaderboard.Metric) ([]model.LeaderboardRow, error)
}

// LeaderboardHandler serves round and cumulative standings.
type LeaderboardHandler struct {
	svc      LeaderboardService
	maxLimit int
}

// NewLeaderboardHandler creates a leaderboard handler. maxLimit caps the
// limit query parameter and is the default when it is absent.
func NewLeaderboardHandler(svc LeaderboardService, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, maxLimit: maxLimit}
}

// limit resolves the limit query parameter against the configured cap.
func (h *LeaderboardHandler) limit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	if n > h.maxLimit {
		n = h.maxLimit
	}
	return n, nil
}

type leaderboardResponse struct {
	RoundID string                 `json:"round_id,omitempty"`
	Sort    string                 `json:"sort"`
	Entries []model.LeaderboardRow `json:"entries"`
}

// HandleRound handles GET /api/leaderboard/{round_id}?class_id=&sort=&limit=.
func (h *LeaderboardHandler) HandleRound(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("round_id")
	metric := leaderboard.ParseMetric(r.URL.Query().Get("sort"))
	n, err := h.limit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.svc.Leaderboard(r.Context(), roundID, r.URL.Query().Get("class_id"), metric)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{RoundID: roundID, Sort: string(metric), Entries: rows})
}

// HandleCumulative handles GET /api/leaderboard/minor-rounds/cumulative.
func (h *LeaderboardHandler) HandleCumulative(w http.ResponseWriter, r *http.Request) {
	metric := leaderboard.ParseMetric(r.URL.Query().Get("sort"))
	n, err := h.limit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.svc.CumulativeLeaderboard(r.Context(), r.URL.Query().Get("class_id"), metric)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Sort: string(metric), Entries: rows})
}
