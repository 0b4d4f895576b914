package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

// ListMembers returns a page of members
// @Summary List members
// @Tags Members
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 1000)"
// @Success 200 {array} models.Member
// @Security BearerAuth
// @Router /members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	members, err := h.storage.ListMembers(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, members)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	member, err := h.storage.GetMember(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, "Member"))
		return
	}
	respond.JSON(w, http.StatusOK, member)
}

// CreateMember adds a member
// @Summary Create member
// @Tags Members
// @Accept json
// @Produce json
// @Param member body models.CreateMemberInput true "Member"
// @Success 201 {object} models.Member
// @Failure 400 {object} map[string]string "Validation failed or supervisor not found"
// @Security BearerAuth
// @Router /members [post]
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var in models.CreateMemberInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if in.SupervisorID != nil {
		if err := h.requireSupervisor(r.Context(), *in.SupervisorID); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	member := in.Member()
	if err := h.storage.CreateMember(r.Context(), &member); err != nil {
		h.fail(w, r, storeErr(err, "Member"))
		return
	}
	respond.JSON(w, http.StatusCreated, member)
}

// UpdateMember applies a partial update. Re-parenting is rejected when the
// new supervisor is missing or sits below the member.
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param member body models.UpdateMemberInput true "Fields to change"
// @Success 200 {object} models.Member
// @Failure 400 {object} map[string]string "Validation failed, supervisor not found or cycle"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateMemberInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	member, err := h.storage.GetMember(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, "Member"))
		return
	}
	if sup := in.SupervisorID.Ptr(); sup != nil {
		if err := h.checkReparent(ctx, id, *sup); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	member.Apply(in)
	if err := h.storage.UpdateMember(ctx, member); err != nil {
		h.fail(w, r, storeErr(err, "Member"))
		return
	}
	respond.JSON(w, http.StatusOK, member)
}

// DeleteMember removes a member. Subordinates keep their supervisor_id.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteMember(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, "Member"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errSupervisorMissing = apperr.BadRequest("Supervisor not found")

func (h *Handler) requireSupervisor(ctx context.Context, supervisorID int64) error {
	_, err := h.storage.GetMember(ctx, supervisorID)
	if errors.Is(err, storage.ErrNotFound) {
		return errSupervisorMissing
	}
	return err
}

func (h *Handler) checkReparent(ctx context.Context, memberID, supervisorID int64) error {
	if supervisorID == memberID {
		return apperr.BadRequest("A member cannot supervise themselves")
	}
	if err := h.requireSupervisor(ctx, supervisorID); err != nil {
		return err
	}
	cycle, err := h.resolver.WouldCreateCycle(ctx, memberID, supervisorID)
	if err != nil {
		return err
	}
	if cycle {
		return apperr.BadRequest("Supervisor assignment would create a reporting cycle")
	}
	return nil
}

// GetSupervisor returns the member's direct supervisor
// @Summary Get supervisor
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} map[string]string "Member or supervisor not found"
// @Security BearerAuth
// @Router /members/{id}/supervisor [get]
func (h *Handler) GetSupervisor(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sup, err := h.resolver.GetSupervisor(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, sup)
}

// GetSubordinates lists direct reports
// @Summary Get subordinates
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {array} models.Member
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{id}/subordinates [get]
func (h *Handler) GetSubordinates(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subs, err := h.resolver.GetSubordinates(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, subs)
}

// GetTopManager walks up the reporting line
// @Summary Get top manager
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{id}/top-manager [get]
func (h *Handler) GetTopManager(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	top, err := h.resolver.GetTopManager(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, top)
}

// GetOrgTree returns the member and everyone below, pre-order
// @Summary Get organization subtree
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {array} models.Member
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /members/{id}/org-tree [get]
func (h *Handler) GetOrgTree(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tree, err := h.resolver.GetOrgSubtree(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tree)
}
