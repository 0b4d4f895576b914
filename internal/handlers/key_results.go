package handlers

import (
	"net/http"

	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

const keyResultEntity = "Key result"

func (h *Handler) ListKeyResults(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	results, err := h.storage.ListKeyResults(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, results)
}

func (h *Handler) GetKeyResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	kr, err := h.storage.GetKeyResult(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, keyResultEntity))
		return
	}
	respond.JSON(w, http.StatusOK, kr)
}

// CreateKeyResult adds a key result
// @Summary Create key result
// @Tags Key Results
// @Accept json
// @Produce json
// @Param key_result body models.CreateKeyResultInput true "Key result"
// @Success 201 {object} models.KeyResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /key-results [post]
func (h *Handler) CreateKeyResult(w http.ResponseWriter, r *http.Request) {
	var in models.CreateKeyResultInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	kr := in.KeyResult()
	if err := h.storage.CreateKeyResult(r.Context(), &kr); err != nil {
		h.fail(w, r, storeErr(err, keyResultEntity))
		return
	}
	respond.JSON(w, http.StatusCreated, kr)
}

func (h *Handler) UpdateKeyResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateKeyResultInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	kr, err := h.storage.GetKeyResult(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, keyResultEntity))
		return
	}
	kr.Apply(in)
	if err := h.storage.UpdateKeyResult(ctx, kr); err != nil {
		h.fail(w, r, storeErr(err, keyResultEntity))
		return
	}
	respond.JSON(w, http.StatusOK, kr)
}

func (h *Handler) DeleteKeyResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteKeyResult(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, keyResultEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) KeyResultStatuses(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, models.KeyResultStatuses)
}

func (h *Handler) KeyResultPriorities(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, models.KeyResultPriorities)
}

func (h *Handler) KeyResultComplexities(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, models.KeyResultComplexities)
}
