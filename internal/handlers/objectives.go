package handlers

import (
	"net/http"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

const objectiveEntity = "Objective"

func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	objectives, err := h.storage.ListObjectives(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, objectives)
}

func (h *Handler) GetObjective(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	o, err := h.storage.GetObjective(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, objectiveEntity))
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

// CreateObjective adds an objective
// @Summary Create objective
// @Tags Objectives
// @Accept json
// @Produce json
// @Param objective body models.CreateObjectiveInput true "Objective"
// @Success 201 {object} models.Objective
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /objectives [post]
func (h *Handler) CreateObjective(w http.ResponseWriter, r *http.Request) {
	var in models.CreateObjectiveInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	o := in.Objective()
	if err := checkDateRange(o.StartDate, o.EndDate); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.CreateObjective(r.Context(), &o); err != nil {
		h.fail(w, r, storeErr(err, objectiveEntity))
		return
	}
	respond.JSON(w, http.StatusCreated, o)
}

func (h *Handler) UpdateObjective(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateObjectiveInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if p := in.ParentID.Ptr(); p != nil && *p == id {
		h.fail(w, r, apperr.BadRequest("An objective cannot be its own parent"))
		return
	}

	ctx := r.Context()
	o, err := h.storage.GetObjective(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, objectiveEntity))
		return
	}
	o.Apply(in)
	if err := checkDateRange(o.StartDate, o.EndDate); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.UpdateObjective(ctx, o); err != nil {
		h.fail(w, r, storeErr(err, objectiveEntity))
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

func (h *Handler) DeleteObjective(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteObjective(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, objectiveEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func checkDateRange(start, end models.Date) error {
	if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
		return apperr.BadRequest("end_date must not be before start_date")
	}
	return nil
}
