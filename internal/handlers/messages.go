package handlers

import (
	"net/http"

	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

const messageEntity = "Message"

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	messages, err := h.storage.ListMessages(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, messages)
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.storage.GetMessage(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, messageEntity))
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var in models.CreateMessageInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m := in.Msg()
	if err := h.storage.CreateMessage(r.Context(), &m); err != nil {
		h.fail(w, r, storeErr(err, messageEntity))
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateMessageInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	m, err := h.storage.GetMessage(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, messageEntity))
		return
	}
	m.Apply(in)
	if err := h.storage.UpdateMessage(ctx, m); err != nil {
		h.fail(w, r, storeErr(err, messageEntity))
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteMessage(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, messageEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MessagePriorities(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, models.MessagePriorities)
}
