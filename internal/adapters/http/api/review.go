package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tyresmoke/burnboard/internal/domain/review"
)

// ReviewService is the judging-anomaly surface the handlers call.
type ReviewService interface {
	ScoringErrors(ctx context.Context) ([]review.Finding, error)
	AcknowledgeDeviation(ctx context.Context, id string, acknowledged bool) error
	DeviationThreshold(ctx context.Context) float64
	SetDeviationThreshold(ctx context.Context, threshold float64) error
}

// ReviewHandler serves the admin scoring-errors screen.
type ReviewHandler struct {
	svc ReviewService
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type scoringErrorsResponse struct {
	Errors []review.Finding `json:"errors"`
	Count  int              `json:"count"`
}

// HandleScoringErrors handles GET /api/admin/scoring-errors.
func (h *ReviewHandler) HandleScoringErrors(w http.ResponseWriter, r *http.Request) {
	findings, err := h.svc.ScoringErrors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if findings == nil {
		findings = []review.Finding{}
	}
	writeJSON(w, http.StatusOK, scoringErrorsResponse{Errors: findings, Count: len(findings)})
}

// HandleAcknowledge handles POST /api/admin/scores/{id}/acknowledge-deviation.
func (h *ReviewHandler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	h.setAck(w, r, true)
}

// HandleUnacknowledge handles POST /api/admin/scores/{id}/unacknowledge-deviation.
func (h *ReviewHandler) HandleUnacknowledge(w http.ResponseWriter, r *http.Request) {
	h.setAck(w, r, false)
}

func (h *ReviewHandler) setAck(w http.ResponseWriter, r *http.Request, acknowledged bool) {
	if err := h.svc.AcknowledgeDeviation(r.Context(), r.PathValue("id"), acknowledged); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type thresholdPayload struct {
	Threshold float64 `json:"threshold"`
}

// HandleGetThreshold handles GET /api/admin/settings/score-deviation.
func (h *ReviewHandler) HandleGetThreshold(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, thresholdPayload{Threshold: h.svc.DeviationThreshold(r.Context())})
}

// HandleSetThreshold handles PUT /api/admin/settings/score-deviation.
func (h *ReviewHandler) HandleSetThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.svc.SetDeviationThreshold(r.Context(), req.Threshold); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thresholdPayload{Threshold: req.Threshold})
}
