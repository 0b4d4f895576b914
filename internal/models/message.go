package models

import "time"

var MessagePriorities = []string{"Top", "High", "Medium", "Low"}

// Message is a dashboard notice shown between DisplayStart and DisplayEnd.
type Message struct {
	ID           int64     `db:"id" json:"id"`
	DisplayStart *Date     `db:"display_start" json:"display_start"`
	DisplayEnd   *Date     `db:"display_end" json:"display_end"`
	Title        string    `db:"title" json:"title"`
	Message      string    `db:"message" json:"message"`
	Priority     string    `db:"priority" json:"priority"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateMessageInput struct {
	DisplayStart *Date  `json:"display_start"`
	DisplayEnd   *Date  `json:"display_end"`
	Title        string `json:"title" validate:"required"`
	Message      string `json:"message" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Top High Medium Low"`
}

func (in CreateMessageInput) Msg() Message {
	m := Message{
		DisplayStart: in.DisplayStart,
		DisplayEnd:   in.DisplayEnd,
		Title:        in.Title,
		Message:      in.Message,
		Priority:     in.Priority,
	}
	if m.Priority == "" {
		m.Priority = "Medium"
	}
	return m
}

type UpdateMessageInput struct {
	DisplayStart *Date   `json:"display_start"`
	DisplayEnd   *Date   `json:"display_end"`
	Title        *string `json:"title" validate:"omitempty,min=1"`
	Message      *string `json:"message" validate:"omitempty,min=1"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=Top High Medium Low"`
}

func (m *Message) Apply(in UpdateMessageInput) {
	if in.DisplayStart != nil {
		m.DisplayStart = in.DisplayStart
	}
	if in.DisplayEnd != nil {
		m.DisplayEnd = in.DisplayEnd
	}
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Message != nil {
		m.Message = *in.Message
	}
	if in.Priority != nil {
		m.Priority = *in.Priority
	}
}
