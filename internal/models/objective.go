package models

import "time"

var (
	ObjectivePriorities = []string{"low", "medium", "high", "critical"}
	ObjectiveStatuses   = []string{"not_started", "in_progress", "at_risk", "on_hold", "delayed", "completed", "cancelled"}
)

type Objective struct {
	ID               int64     `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      *string   `db:"description" json:"description"`
	MemberID         int64     `db:"member_id" json:"member_id"`
	ParentID         *int64    `db:"parent_id" json:"parent_id"`
	Priority         string    `db:"priority" json:"priority"`
	Status           string    `db:"status" json:"status"`
	StartDate        Date      `db:"start_date" json:"start_date"`
	EndDate          Date      `db:"end_date" json:"end_date"`
	MeasurableTarget *string   `db:"measurable_target" json:"measurable_target"`
	Progress         int       `db:"progress" json:"progress"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type CreateObjectiveInput struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Description      *string `json:"description"`
	MemberID         int64   `json:"member_id" validate:"required"`
	ParentID         *int64  `json:"parent_id"`
	Priority         string  `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status           string  `json:"status" validate:"omitempty,oneof=not_started in_progress at_risk on_hold delayed completed cancelled"`
	StartDate        Date    `json:"start_date" validate:"required"`
	EndDate          Date    `json:"end_date" validate:"required"`
	MeasurableTarget *string `json:"measurable_target" validate:"omitempty,max=255"`
	Progress         int     `json:"progress" validate:"min=0,max=100"`
}

func (in CreateObjectiveInput) Objective() Objective {
	o := Objective{
		Title:            in.Title,
		Description:      in.Description,
		MemberID:         in.MemberID,
		ParentID:         in.ParentID,
		Priority:         in.Priority,
		Status:           in.Status,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		MeasurableTarget: in.MeasurableTarget,
		Progress:         in.Progress,
	}
	if o.Priority == "" {
		o.Priority = "medium"
	}
	if o.Status == "" {
		o.Status = "not_started"
	}
	return o
}

type UpdateObjectiveInput struct {
	Title            *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description      *string   `json:"description"`
	MemberID         *int64    `json:"member_id"`
	ParentID         NullInt64 `json:"parent_id"`
	Priority         *string   `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status           *string   `json:"status" validate:"omitempty,oneof=not_started in_progress at_risk on_hold delayed completed cancelled"`
	StartDate        *Date     `json:"start_date"`
	EndDate          *Date     `json:"end_date"`
	MeasurableTarget *string   `json:"measurable_target" validate:"omitempty,max=255"`
	Progress         *int      `json:"progress" validate:"omitempty,min=0,max=100"`
}

func (o *Objective) Apply(in UpdateObjectiveInput) {
	if in.Title != nil {
		o.Title = *in.Title
	}
	if in.Description != nil {
		o.Description = in.Description
	}
	if in.MemberID != nil {
		o.MemberID = *in.MemberID
	}
	if in.ParentID.Set {
		o.ParentID = in.ParentID.Ptr()
	}
	if in.Priority != nil {
		o.Priority = *in.Priority
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.StartDate != nil {
		o.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		o.EndDate = *in.EndDate
	}
	if in.MeasurableTarget != nil {
		o.MeasurableTarget = in.MeasurableTarget
	}
	if in.Progress != nil {
		o.Progress = *in.Progress
	}
}
