package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tyresmoke/burnboard/internal/domain/model"
)

// RosterService is the class and competitor surface the handlers call.
type RosterService interface {
	CreateClass(ctx context.Context, c model.CompetitionClass) (model.CompetitionClass, error)
	UpdateClass(ctx context.Context, c model.CompetitionClass) error
	DeleteClass(ctx context.Context, id string) error
	ListClasses(ctx context.Context) ([]model.CompetitionClass, error)

	CreateCompetitor(ctx context.Context, c model.Competitor) (model.Competitor, error)
	UpdateCompetitor(ctx context.Context, c model.Competitor) error
	DeleteCompetitor(ctx context.Context, id string) error
	ListCompetitors(ctx context.Context) ([]model.CompetitorWithClass, error)
}

// RosterHandler manages classes and competitors.
type RosterHandler struct {
	svc      RosterService
	validate *validator.Validate
}

// NewRosterHandler creates a roster handler.
func NewRosterHandler(svc RosterService, v *validator.Validate) *RosterHandler {
	return &RosterHandler{svc: svc, validate: v}
}

type classRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// HandleCreateClass handles POST /api/admin/classes.
func (h *RosterHandler) HandleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	created, err := h.svc.CreateClass(r.Context(), model.CompetitionClass{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListClasses handles GET /api/admin/classes.
func (h *RosterHandler) HandleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.svc.ListClasses(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

// HandleUpdateClass handles PUT /api/admin/classes/{id}.
func (h *RosterHandler) HandleUpdateClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	c := model.CompetitionClass{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.svc.UpdateClass(r.Context(), c); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDeleteClass handles DELETE /api/admin/classes/{id}.
func (h *RosterHandler) HandleDeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClass(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type competitorRequest struct {
	Name        string `json:"name" validate:"required"`
	CarNumber   string `json:"car_number" validate:"required"`
	VehicleInfo string `json:"vehicle_info"`
	Plate       string `json:"plate"`
	ClassID     string `json:"class_id"`
}

// HandleCreateCompetitor handles POST /api/admin/competitors.
func (h *RosterHandler) HandleCreateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	created, err := h.svc.CreateCompetitor(r.Context(), model.Competitor{
		Name:        req.Name,
		CarNumber:   req.CarNumber,
		VehicleInfo: req.VehicleInfo,
		Plate:       req.Plate,
		ClassID:     req.ClassID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListCompetitors handles GET /api/admin/competitors.
func (h *RosterHandler) HandleListCompetitors(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.svc.ListCompetitors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, competitors)
}

// HandleUpdateCompetitor handles PUT /api/admin/competitors/{id}.
func (h *RosterHandler) HandleUpdateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", validationMessage(err))
		return
	}
	c := model.Competitor{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		CarNumber:   req.CarNumber,
		VehicleInfo: req.VehicleInfo,
		Plate:       req.Plate,
		ClassID:     req.ClassID,
	}
	if err := h.svc.UpdateCompetitor(r.Context(), c); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDeleteCompetitor handles DELETE /api/admin/competitors/{id}.
func (h *RosterHandler) HandleDeleteCompetitor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCompetitor(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
