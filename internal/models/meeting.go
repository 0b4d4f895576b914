package models

import (
	"encoding/json"
	"time"
)

type Meeting struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Date         Date      `db:"date" json:"date"`
	Time         ClockTime `db:"time" json:"time"`
	Duration     int       `db:"duration" json:"duration"`
	Minutes      *string   `db:"minutes" json:"minutes"`
	LeadMemberID int64     `db:"lead_member_id" json:"lead_member_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateMeetingInput struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Date         Date      `json:"date" validate:"required"`
	Time         ClockTime `json:"time"`
	Duration     int       `json:"duration" validate:"required,min=1"`
	Minutes      *string   `json:"minutes"`
	LeadMemberID int64     `json:"lead_member_id" validate:"required"`
}

func (in CreateMeetingInput) Meeting() Meeting {
	return Meeting{
		Title:        in.Title,
		Date:         in.Date,
		Time:         in.Time,
		Duration:     in.Duration,
		Minutes:      in.Minutes,
		LeadMemberID: in.LeadMemberID,
	}
}

type UpdateMeetingInput struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Date         *Date      `json:"date"`
	Time         *ClockTime `json:"time"`
	Duration     *int       `json:"duration" validate:"omitempty,min=1"`
	Minutes      *string    `json:"minutes"`
	LeadMemberID *int64     `json:"lead_member_id"`
}

func (m *Meeting) Apply(in UpdateMeetingInput) {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Date != nil {
		m.Date = *in.Date
	}
	if in.Time != nil {
		m.Time = *in.Time
	}
	if in.Duration != nil {
		m.Duration = *in.Duration
	}
	if in.Minutes != nil {
		m.Minutes = in.Minutes
	}
	if in.LeadMemberID != nil {
		m.LeadMemberID = *in.LeadMemberID
	}
}

// MeetingLink is a row of one of the meeting association tables. TargetID is
// the member, objective or key result id depending on the table and is
// serialized under TargetField; Note is always nil for participants.
type MeetingLink struct {
	ID          int64     `db:"id"`
	MeetingID   int64     `db:"meeting_id"`
	TargetID    int64     `db:"target_id"`
	TargetField string    `db:"-"`
	Note        *string   `db:"note"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (l MeetingLink) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":         l.ID,
		"meeting_id": l.MeetingID,
		"created_at": l.CreatedAt,
		"updated_at": l.UpdatedAt,
	}
	field := l.TargetField
	if field == "" {
		field = "target_id"
	}
	out[field] = l.TargetID
	if field != "member_id" {
		out["note"] = l.Note
	}
	return json.Marshal(out)
}

type MeetingLinkInput struct {
	TargetID int64   `json:"-" validate:"required"`
	Note     *string `json:"note"`
}

// MeetingWithIDs is the meeting read shape: the meeting plus the ids of its
// linked members, objectives and key results.
type MeetingWithIDs struct {
	Meeting
	ParticipantIDs []int64 `json:"participant_ids"`
	ObjectiveIDs   []int64 `json:"objective_ids"`
	KeyResultIDs   []int64 `json:"key_result_ids"`
}

type MeetingAssociations struct {
	Participants []MeetingLink `json:"participants"`
	Objectives   []MeetingLink `json:"objectives"`
	KeyResults   []MeetingLink `json:"key_results"`
}
