package models

import "time"

type Member struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Position     string    `db:"position" json:"position"`
	Email        *string   `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone"`
	Note         *string   `db:"note" json:"note"`
	SupervisorID *int64    `db:"supervisor_id" json:"supervisor_id"`
	UserID       *int64    `db:"user_id" json:"user_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateMemberInput struct {
	FirstName    string  `json:"first_name" validate:"required,max=255"`
	LastName     string  `json:"last_name" validate:"required,max=255"`
	Position     string  `json:"position" validate:"required,max=255"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=64"`
	Note         *string `json:"note"`
	SupervisorID *int64  `json:"supervisor_id"`
	UserID       *int64  `json:"user_id"`
}

func (in CreateMemberInput) Member() Member {
	return Member{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Position:     in.Position,
		Email:        in.Email,
		Phone:        in.Phone,
		Note:         in.Note,
		SupervisorID: in.SupervisorID,
		UserID:       in.UserID,
	}
}

type UpdateMemberInput struct {
	FirstName    *string   `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName     *string   `json:"last_name" validate:"omitempty,min=1,max=255"`
	Position     *string   `json:"position" validate:"omitempty,min=1,max=255"`
	Email        *string   `json:"email" validate:"omitempty,email"`
	Phone        *string   `json:"phone" validate:"omitempty,max=64"`
	Note         *string   `json:"note"`
	SupervisorID NullInt64 `json:"supervisor_id"`
	UserID       NullInt64 `json:"user_id"`
}

// Apply copies the fields present in in onto m.
func (m *Member) Apply(in UpdateMemberInput) {
	if in.FirstName != nil {
		m.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		m.LastName = *in.LastName
	}
	if in.Position != nil {
		m.Position = *in.Position
	}
	if in.Email != nil {
		m.Email = in.Email
	}
	if in.Phone != nil {
		m.Phone = in.Phone
	}
	if in.Note != nil {
		m.Note = in.Note
	}
	if in.SupervisorID.Set {
		m.SupervisorID = in.SupervisorID.Ptr()
	}
	if in.UserID.Set {
		m.UserID = in.UserID.Ptr()
	}
}
