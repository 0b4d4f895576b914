package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fshub-online/aiph-lambda/internal/apperr"
	"github.com/fshub-online/aiph-lambda/internal/models"
	"github.com/fshub-online/aiph-lambda/internal/respond"
	"github.com/fshub-online/aiph-lambda/internal/storage"
)

const meetingEntity = "Meeting"

// ListMeetings returns meetings newest first, each with its linked ids
// @Summary List meetings
// @Tags Meetings
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 1000)"
// @Success 200 {array} models.MeetingWithIDs
// @Security BearerAuth
// @Router /meetings [get]
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	meetings, err := h.storage.ListMeetings(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, meetings)
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.storage.GetMeetingWithIDs(r.Context(), id)
	if err != nil {
		h.fail(w, r, storeErr(err, meetingEntity))
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var in models.CreateMeetingInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m := in.Meeting()
	if err := h.storage.CreateMeeting(r.Context(), &m); err != nil {
		h.fail(w, r, storeErr(err, meetingEntity))
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in models.UpdateMeetingInput
	if err := h.decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	m, err := h.storage.GetMeeting(ctx, id)
	if err != nil {
		h.fail(w, r, storeErr(err, meetingEntity))
		return
	}
	m.Apply(in)
	if err := h.storage.UpdateMeeting(ctx, m); err != nil {
		h.fail(w, r, storeErr(err, meetingEntity))
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.storage.DeleteMeeting(r.Context(), id); err != nil {
		h.fail(w, r, deleteErr(err, meetingEntity))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMeetingAssociations returns every link of a meeting
// @Summary Get all associations for a meeting
// @Tags Meetings
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} models.MeetingAssociations
// @Failure 404 {object} map[string]string "Meeting not found"
// @Security BearerAuth
// @Router /meetings/{id}/associations [get]
func (h *Handler) GetMeetingAssociations(w http.ResponseWriter, r *http.Request) {
	id, err := h.meetingID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	assoc, err := h.storage.GetMeetingAssociations(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, assoc)
}

// meetingID parses the path id and confirms the meeting exists.
func (h *Handler) meetingID(r *http.Request) (int64, error) {
	id, err := parseID(r, "id")
	if err != nil {
		return 0, err
	}
	if err := h.requireMeeting(r.Context(), id); err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Handler) requireMeeting(ctx context.Context, id int64) error {
	if _, err := h.storage.GetMeeting(ctx, id); err != nil {
		return storeErr(err, meetingEntity)
	}
	return nil
}

var linkLabels = map[storage.LinkKind]string{
	storage.Participants:      "Participant",
	storage.MeetingObjectives: "Objective association",
	storage.MeetingKeyResults: "Key result association",
}

// linkBody accepts any of the target fields; the one matching the link kind
// is required.
type linkBody struct {
	MemberID    *int64  `json:"member_id"`
	ObjectiveID *int64  `json:"objective_id"`
	KeyResultID *int64  `json:"key_result_id"`
	Note        *string `json:"note"`
}

func (b linkBody) input(kind storage.LinkKind) (models.MeetingLinkInput, error) {
	var target *int64
	switch kind {
	case storage.Participants:
		target = b.MemberID
	case storage.MeetingObjectives:
		target = b.ObjectiveID
	case storage.MeetingKeyResults:
		target = b.KeyResultID
	}
	if target == nil || *target <= 0 {
		return models.MeetingLinkInput{}, apperr.BadRequest(kind.Field() + ": failed required")
	}
	in := models.MeetingLinkInput{TargetID: *target}
	if kind.HasNote() {
		in.Note = b.Note
	}
	return in, nil
}

func (h *Handler) registerLinkRoutes(r chi.Router, segment string, kind storage.LinkKind) {
	base := "/meetings/{id}" + segment
	item := base + "/{" + kind.Field() + "}"

	r.Get(base, h.listLinks(kind))
	r.Post(base, h.addLink(kind))
	r.Get(item, h.getLink(kind))
	r.Put(item, h.updateLink(kind))
	r.Delete(item, h.removeLink(kind))
}

func (h *Handler) listLinks(kind storage.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.meetingID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		links, err := h.storage.ListMeetingLinks(r.Context(), kind, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, links)
	}
}

func (h *Handler) addLink(kind storage.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.meetingID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		in, err := h.decodeLink(w, r, kind)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		link, err := h.storage.AddMeetingLink(r.Context(), kind, id, in)
		if err != nil {
			h.fail(w, r, storeErr(err, linkLabels[kind]))
			return
		}
		respond.JSON(w, http.StatusCreated, link)
	}
}

func (h *Handler) getLink(kind storage.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.meetingID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		target, err := parseID(r, kind.Field())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		link, err := h.storage.GetMeetingLink(r.Context(), kind, id, target)
		if err != nil {
			h.fail(w, r, storeErr(err, linkLabels[kind]))
			return
		}
		respond.JSON(w, http.StatusOK, link)
	}
}

// updateLink replaces the member of a participant link; for objective and key
// result links it rewrites the note.
func (h *Handler) updateLink(kind storage.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.meetingID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		target, err := parseID(r, kind.Field())
		if err != nil {
			h.fail(w, r, err)
			return
		}

		var link *models.MeetingLink
		if kind.HasNote() {
			var body linkBody
			if err := h.decode(w, r, &body); err != nil {
				h.fail(w, r, err)
				return
			}
			link, err = h.storage.UpdateMeetingLinkNote(r.Context(), kind, id, target, body.Note)
		} else {
			var in models.MeetingLinkInput
			if in, err = h.decodeLink(w, r, kind); err != nil {
				h.fail(w, r, err)
				return
			}
			link, err = h.storage.ReplaceMeetingLink(r.Context(), kind, id, target, in)
		}
		if err != nil {
			h.fail(w, r, storeErr(err, linkLabels[kind]))
			return
		}
		respond.JSON(w, http.StatusOK, link)
	}
}

func (h *Handler) removeLink(kind storage.LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.meetingID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		target, err := parseID(r, kind.Field())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := h.storage.RemoveMeetingLink(r.Context(), kind, id, target); err != nil {
			h.fail(w, r, storeErr(err, linkLabels[kind]))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) decodeLink(w http.ResponseWriter, r *http.Request, kind storage.LinkKind) (models.MeetingLinkInput, error) {
	var body linkBody
	if err := h.decode(w, r, &body); err != nil {
		return models.MeetingLinkInput{}, err
	}
	return body.input(kind)
}
