package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/auth"
	"github.com/fshub-online/aiph-lambda/internal/hierarchy"
	"github.com/fshub-online/aiph-lambda/internal/respond"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	storage  *storage.Storage
	resolver *hierarchy.Resolver
	authn    auth.Authenticator
	validate *validator.Validate
	log      logrus.FieldLogger
}

func New(store *storage.Storage, authn auth.Authenticator, log logrus.FieldLogger) *Handler {
	return &Handler{
		storage:  store,
		resolver: hierarchy.NewResolver(store),
		authn:    authn,
		validate: apperr.NewValidator(),
		log:      log,
	}
}

// RegisterRoutes mounts the public health routes and the bearer-protected
// resource routes on r, which is expected to sit under the API prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.authn, h.log))

		// Members and reporting lines
		r.Get("/members", h.ListMembers)
		r.Post("/members", h.CreateMember)
		r.Get("/members/{id}", h.GetMember)
		r.Put("/members/{id}", h.UpdateMember)
		r.Patch("/members/{id}", h.UpdateMember)
		r.Delete("/members/{id}", h.DeleteMember)
		r.Get("/members/{id}/supervisor", h.GetSupervisor)
		r.Get("/members/{id}/subordinates", h.GetSubordinates)
		r.Get("/members/{id}/top-manager", h.GetTopManager)
		r.Get("/members/{id}/org-tree", h.GetOrgTree)

		// Users
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Get("/users/{id}", h.GetUser)
		r.Get("/users/{id}/member", h.GetUserMember)
		r.Put("/users/{id}", h.UpdateUser)
		r.Patch("/users/{id}", h.UpdateUser)
		r.Delete("/users/{id}", h.DeleteUser)

		// Objectives
		r.Get("/objectives", h.ListObjectives)
		r.Post("/objectives", h.CreateObjective)
		r.Get("/objectives/{id}", h.GetObjective)
		r.Put("/objectives/{id}", h.UpdateObjective)
		r.Patch("/objectives/{id}", h.UpdateObjective)
		r.Delete("/objectives/{id}", h.DeleteObjective)

		// Key results
		r.Get("/key-results", h.ListKeyResults)
		r.Post("/key-results", h.CreateKeyResult)
		r.Get("/key-results/{id}", h.GetKeyResult)
		r.Put("/key-results/{id}", h.UpdateKeyResult)
		r.Patch("/key-results/{id}", h.UpdateKeyResult)
		r.Delete("/key-results/{id}", h.DeleteKeyResult)
		r.Get("/key-result-enums/statuses", h.KeyResultStatuses)
		r.Get("/key-result-enums/priorities", h.KeyResultPriorities)
		r.Get("/key-result-enums/complexities", h.KeyResultComplexities)

		// Meetings
		r.Get("/meetings", h.ListMeetings)
		r.Post("/meetings", h.CreateMeeting)
		r.Get("/meetings/{id}", h.GetMeeting)
		r.Put("/meetings/{id}", h.UpdateMeeting)
		r.Patch("/meetings/{id}", h.UpdateMeeting)
		r.Delete("/meetings/{id}", h.DeleteMeeting)
		r.Get("/meetings/{id}/associations", h.GetMeetingAssociations)
		h.registerLinkRoutes(r, "/participants", storage.Participants)
		h.registerLinkRoutes(r, "/objectives", storage.MeetingObjectives)
		h.registerLinkRoutes(r, "/key-results", storage.MeetingKeyResults)

		// Messages
		r.Get("/messages", h.ListMessages)
		r.Post("/messages", h.CreateMessage)
		r.Get("/messages/{id}", h.GetMessage)
		r.Put("/messages/{id}", h.UpdateMessage)
		r.Patch("/messages/{id}", h.UpdateMessage)
		r.Delete("/messages/{id}", h.DeleteMessage)
		r.Get("/message-priorities", h.MessagePriorities)
	})
}

func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("invalid " + param)
	}
	return id, nil
}

func parsePage(r *http.Request) (storage.Page, error) {
	page := storage.Page{Limit: storage.DefaultLimit}
	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return page, apperr.BadRequest("skip must be a non-negative integer")
		}
		page.Skip = skip
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > storage.MaxLimit {
			return page, apperr.BadRequest("limit must be between 1 and " + strconv.Itoa(storage.MaxLimit))
		}
		page.Limit = limit
	}
	return page, nil
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Invalid(err)
	}
	return nil
}

// storeErr maps storage sentinels onto client-facing errors for entity.
func storeErr(err error, entity string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(entity + " not found")
	case errors.Is(err, storage.ErrConflict):
		return apperr.Conflict(entity + " already exists")
	case errors.Is(err, storage.ErrReference):
		return apperr.BadRequest(entity + " references a record that does not exist")
	}
	return err
}

// deleteErr is storeErr for deletes, where a foreign key violation means the
// row is still referenced.
func deleteErr(err error, entity string) error {
	if errors.Is(err, storage.ErrReference) {
		return apperr.Conflict(entity + " is still referenced by other records")
	}
	return storeErr(err, entity)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}
	respond.AppError(w, err)
}
