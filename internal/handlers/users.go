package handlers

import (
	"net/http"

	"github.com/fshub-online/aiph-lambda/internal/auth"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
)

const userEntity = "User"

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.storage.ListUsers(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.storage.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, userEntity))
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// GetUserMember returns the organization member linked to a user account
// @Summary Get the member record of a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /users/{id}/member [get]
func (h *Handler) GetUserMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	member, err := h.storage.GetMemberByUserID(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, "Member"))
		return
	}
	respond.JSON(w, http.StatusOK, member)
}

// CreateUser registers a login identity
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body models.CreateUserInput true "User"
// @Success 201 {object} models.User
// @Failure 409 {object} map[string]string "User name or email already registered"
// @Security BearerAuth
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.CreateUserInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user := &models.User{
		UserName:     in.UserName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Position:     in.Position,
		Notes:        in.Notes,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	if err := h.storage.CreateUser(r.Context(), user); err != nil {
		h.fail(w, r, storeErr(err, userEntity))
		return
	}
	respond.JSON(w, http.StatusCreated, user)
}

// UpdateUser is the administrative update; unlike the profile endpoint it
// accepts a new password.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateUserInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.storage.GetUser(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, userEntity))
		return
	}
	user.Apply(in)
	if in.Password != nil {
		if user.PasswordHash, err = auth.HashPassword(*in.Password); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if err := h.storage.UpdateUser(ctx, user); err != nil {
		h.fail(w, r, storeErr(err, userEntity))
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, userEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
