package api

import (
	"context"
	"net/http"

	"github.com/tyresmoke/burnboard/internal/app"
)

// StatsProvider exposes the operational snapshot.
type StatsProvider interface {
	GetStats(ctx context.Context) app.Stats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.GetStats(r.Context()))
}
