package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tyresmoke/burnboard/internal/app"
	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
)

// ScoreService is the score-lifecycle surface the handlers call.
type ScoreService interface {
	SubmitScore(ctx context.Context, sub model.Submission) (app.SubmitStatus, error)
	PreviewScore(ctx context.Context, card model.ScoreCard) scoring.Breakdown
	GetScore(ctx context.Context, id string) (model.ScoreRecord, error)
	ListScores(ctx context.Context) ([]model.ScoreRecord, error)
	ListScoresByJudge(ctx context.Context, judgeID string) ([]model.ScoreRecord, error)
	EditScore(ctx context.Context, id string, patch model.ScorePatch) (model.ScoreRecord, error)
	DeleteScore(ctx context.Context, id string) error
	PendingEmails(ctx context.Context) ([]model.ScoreRecord, error)
	MarkEmailSent(ctx context.Context, id string) error
}

// ScoresHandler handles judge submission and admin score management.
type ScoresHandler struct {
	svc      ScoreService
	validate *validator.Validate
	policy   scoring.Policy
}

// NewScoresHandler creates a scores handler.
func NewScoresHandler(svc ScoreService, v *validator.Validate, policy scoring.Policy) *ScoresHandler {
	return &ScoresHandler{svc: svc, validate: v, policy: policy}
}

// flexNumber accepts a JSON number or a quoted string. Score sheets
// arrive from clients that serialize category values either way; the
// configured coercion policy decides what happens to garbage.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode category value: %w", err)
		}
		*n = flexNumber(s)
		return nil
	}
	*n = flexNumber(b)
	return nil
}

// cardPayload is the raw-card portion shared by submit and preview.
type cardPayload struct {
	TipIn         flexNumber `json:"tip_in"`
	InstantSmoke  flexNumber `json:"instant_smoke"`
	ConstantSmoke flexNumber `json:"constant_smoke"`
	VolumeOfSmoke flexNumber `json:"volume_of_smoke"`
	DrivingSkill  flexNumber `json:"driving_skill"`

	TyresPopped           int  `json:"tyres_popped"`
	PenaltyReversing      int  `json:"penalty_reversing"`
	PenaltyStopping       int  `json:"penalty_stopping"`
	PenaltyContactBarrier int  `json:"penalty_contact_barrier"`
	PenaltySmallFire      int  `json:"penalty_small_fire"`
	PenaltyFailedDriveOff int  `json:"penalty_failed_drive_off"`
	PenaltyLargeFire      int  `json:"penalty_large_fire"`
	PenaltyDisqualified   bool `json:"penalty_disqualified"`
}

// cardBounds carries the score-sheet ranges for validation.
type cardBounds struct {
	TipIn         float64 `validate:"gte=0,lte=10,halfstep"`
	InstantSmoke  float64 `validate:"gte=0,lte=10,halfstep"`
	ConstantSmoke float64 `validate:"gte=0,lte=20,halfstep"`
	VolumeOfSmoke float64 `validate:"gte=0,lte=20,halfstep"`
	DrivingSkill  float64 `validate:"gte=0,lte=40,halfstep"`

	TyresPopped           int `validate:"gte=0,lte=2"`
	PenaltyReversing      int `validate:"gte=0"`
	PenaltyStopping       int `validate:"gte=0"`
	PenaltyContactBarrier int `validate:"gte=0"`
	PenaltySmallFire      int `validate:"gte=0"`
	PenaltyFailedDriveOff int `validate:"gte=0,lte=1"`
	PenaltyLargeFire      int `validate:"gte=0,lte=1"`
}

func boundsOf(card model.ScoreCard) cardBounds {
	return cardBounds{
		TipIn:                 card.TipIn,
		InstantSmoke:          card.InstantSmoke,
		ConstantSmoke:         card.ConstantSmoke,
		VolumeOfSmoke:         card.VolumeOfSmoke,
		DrivingSkill:          card.DrivingSkill,
		TyresPopped:           card.TyresPopped,
		PenaltyReversing:      card.PenaltyReversing,
		PenaltyStopping:       card.PenaltyStopping,
		PenaltyContactBarrier: card.PenaltyContactBarrier,
		PenaltySmallFire:      card.PenaltySmallFire,
		PenaltyFailedDriveOff: card.PenaltyFailedDriveOff,
		PenaltyLargeFire:      card.PenaltyLargeFire,
	}
}

// card resolves the flexible fields under the coercion policy and
// returns the typed card.
func (p cardPayload) card(policy scoring.Policy) (model.ScoreCard, error) {
	var card model.ScoreCard
	var err error
	fields := []struct {
		raw  flexNumber
		dst  *float64
		name string
	}{
		{p.TipIn, &card.TipIn, "tip_in"},
		{p.InstantSmoke, &card.InstantSmoke, "instant_smoke"},
		{p.ConstantSmoke, &card.ConstantSmoke, "constant_smoke"},
		{p.VolumeOfSmoke, &card.VolumeOfSmoke, "volume_of_smoke"},
		{p.DrivingSkill, &card.DrivingSkill, "driving_skill"},
	}
	for _, f := range fields {
		if *f.dst, err = policy.Parse(string(f.raw)); err != nil {
			return model.ScoreCard{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	card.TyresPopped = p.TyresPopped
	card.PenaltyReversing = p.PenaltyReversing
	card.PenaltyStopping = p.PenaltyStopping
	card.PenaltyContactBarrier = p.PenaltyContactBarrier
	card.PenaltySmallFire = p.PenaltySmallFire
	card.PenaltyFailedDriveOff = p.PenaltyFailedDriveOff
	card.PenaltyLargeFire = p.PenaltyLargeFire
	card.PenaltyDisqualified = p.PenaltyDisqualified
	return card, nil
}

// submitRequest mirrors the OpenAPI schema for POST /api/judge/scores.
type submitRequest struct {
	cardPayload

	SubmissionID string `json:"submission_id"`
	JudgeID      string `json:"judge_id" validate:"required"`
	JudgeName    string `json:"judge_name" validate:"required"`
	CompetitorID string `json:"competitor_id" validate:"required"`
	RoundID      string `json:"round_id" validate:"required"`
}

type ackResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id,omitempty"`
	Duplicate    bool   `json:"duplicate"`
}

// HandleSubmit handles POST /api/judge/scores.
func (h *ScoresHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	card, err := req.card(h.policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(boundsOf(card)); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}

	sub := model.Submission{
		SubmissionID: req.SubmissionID,
		JudgeID:      req.JudgeID,
		JudgeName:    req.JudgeName,
		CompetitorID: req.CompetitorID,
		RoundID:      req.RoundID,
		Card:         card,
	}
	status, err := h.svc.SubmitScore(r.Context(), sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status == app.SubmitDuplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SubmissionID: sub.SubmissionID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SubmissionID: sub.SubmissionID})
}

// HandlePreview handles POST /api/judge/scores/preview. Nothing is
// persisted; the response is the breakdown the card would receive.
func (h *ScoresHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var req cardPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	card, err := req.card(h.policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(boundsOf(card)); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.PreviewScore(r.Context(), card))
}

// HandleListByJudge handles GET /api/judge/scores?judge_id=.
func (h *ScoresHandler) HandleListByJudge(w http.ResponseWriter, r *http.Request) {
	judgeID := r.URL.Query().Get("judge_id")
	if judgeID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingJudgeID)
		return
	}
	records, err := h.svc.ListScoresByJudge(r.Context(), judgeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleListAll handles GET /api/admin/scores.
func (h *ScoresHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListScores(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleEdit handles PUT /api/admin/scores/{id}. The body is a partial
// patch of raw fields; totals are recomputed server-side.
func (h *ScoresHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var patch model.ScorePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	// Zero is in range for every field, so bounds-checking the patch
	// overlaid on an empty card covers exactly the supplied values.
	if err := h.validate.Struct(boundsOf(patch.Apply(model.ScoreCard{}))); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	rec, err := h.svc.EditScore(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /api/admin/scores/{id}.
func (h *ScoresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteScore(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePendingEmails handles GET /api/admin/emails/pending.
func (h *ScoresHandler) HandlePendingEmails(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.PendingEmails(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleMarkEmailSent handles POST /api/admin/scores/{id}/email-sent.
func (h *ScoresHandler) HandleMarkEmailSent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkEmailSent(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
