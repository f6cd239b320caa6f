package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tyresmoke/burnboard/internal/domain/model"
)

// RoundService is the round-management surface the handlers call.
type RoundService interface {
	CreateRound(ctx context.Context, r model.Round) (model.Round, error)
	UpdateRound(ctx context.Context, r model.Round) error
	DeleteRound(ctx context.Context, id string) error
	ListRounds(ctx context.Context) ([]model.Round, error)
}

// RoundsHandler manages competition rounds.
type RoundsHandler struct {
	svc      RoundService
	validate *validator.Validate
}

// NewRoundsHandler creates a rounds handler.
func NewRoundsHandler(svc RoundService, v *validator.Validate) *RoundsHandler {
	return &RoundsHandler{svc: svc, validate: v}
}

type roundRequest struct {
	Name    string `json:"name" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Status  string `json:"status" validate:"omitempty,oneof=active completed"`
	IsMinor bool   `json:"is_minor"`
}

// HandleCreate handles POST /api/admin/rounds.
func (h *RoundsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	created, err := h.svc.CreateRound(r.Context(), model.Round{
		Name:    req.Name,
		Date:    req.Date,
		Status:  req.Status,
		IsMinor: req.IsMinor,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /api/admin/rounds.
func (h *RoundsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.svc.ListRounds(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// HandleUpdate handles PUT /api/admin/rounds/{id}.
func (h *RoundsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	round := model.Round{
		ID:      r.PathValue("id"),
		Name:    req.Name,
		Date:    req.Date,
		Status:  req.Status,
		IsMinor: req.IsMinor,
	}
	if round.Status == "" {
		round.Status = model.RoundActive
	}
	if err := h.svc.UpdateRound(r.Context(), round); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// HandleDelete handles DELETE /api/admin/rounds/{id}.
func (h *RoundsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRound(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
