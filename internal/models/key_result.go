package models

import "time"

var (
	KeyResultStatuses     = []string{"not_started", "in_progress", "at_risk", "on_hold", "delayed", "completed", "cancelled", "current", "planned", "past"}
	KeyResultPriorities   = []string{"low", "medium", "high", "critical"}
	KeyResultComplexities = []string{"trivial", "easy", "moderate", "hard", "extreme"}
)

type KeyResult struct {
	ID              int64     `db:"id" json:"id"`
	MemberID        int64     `db:"member_id" json:"member_id"`
	ObjectiveID     *int64    `db:"objective_id" json:"objective_id"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description"`
	ValueDefinition string    `db:"value_definition" json:"value_definition"`
	Unit            string    `db:"unit" json:"unit"`
	StartValue      float64   `db:"start_value" json:"start_value"`
	CurrentValue    float64   `db:"current_value" json:"current_value"`
	TargetValue     float64   `db:"target_value" json:"target_value"`
	Status          string    `db:"status" json:"status"`
	Priority        string    `db:"priority" json:"priority"`
	Complexity      string    `db:"complexity" json:"complexity"`
	StartDate       *Date     `db:"start_date" json:"start_date"`
	EndDate         *Date     `db:"end_date" json:"end_date"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type CreateKeyResultInput struct {
	MemberID        int64   `json:"member_id" validate:"required"`
	ObjectiveID     *int64  `json:"objective_id"`
	Title           string  `json:"title" validate:"required,max=255"`
	Description     *string `json:"description"`
	ValueDefinition string  `json:"value_definition" validate:"required,max=255"`
	Unit            string  `json:"unit" validate:"required,max=64"`
	StartValue      float64 `json:"start_value"`
	CurrentValue    float64 `json:"current_value"`
	TargetValue     float64 `json:"target_value"`
	Status          string  `json:"status" validate:"omitempty,oneof=not_started in_progress at_risk on_hold delayed completed cancelled current planned past"`
	Priority        string  `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Complexity      string  `json:"complexity" validate:"omitempty,oneof=trivial easy moderate hard extreme"`
	StartDate       *Date   `json:"start_date"`
	EndDate         *Date   `json:"end_date"`
}

func (in CreateKeyResultInput) KeyResult() KeyResult {
	kr := KeyResult{
		MemberID:        in.MemberID,
		ObjectiveID:     in.ObjectiveID,
		Title:           in.Title,
		Description:     in.Description,
		ValueDefinition: in.ValueDefinition,
		Unit:            in.Unit,
		StartValue:      in.StartValue,
		CurrentValue:    in.CurrentValue,
		TargetValue:     in.TargetValue,
		Status:          in.Status,
		Priority:        in.Priority,
		Complexity:      in.Complexity,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	}
	if kr.Status == "" {
		kr.Status = "current"
	}
	if kr.Priority == "" {
		kr.Priority = "medium"
	}
	if kr.Complexity == "" {
		kr.Complexity = "moderate"
	}
	return kr
}

type UpdateKeyResultInput struct {
	MemberID        *int64    `json:"member_id"`
	ObjectiveID     NullInt64 `json:"objective_id"`
	Title           *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string   `json:"description"`
	ValueDefinition *string   `json:"value_definition" validate:"omitempty,min=1,max=255"`
	Unit            *string   `json:"unit" validate:"omitempty,min=1,max=64"`
	StartValue      *float64  `json:"start_value"`
	CurrentValue    *float64  `json:"current_value"`
	TargetValue     *float64  `json:"target_value"`
	Status          *string   `json:"status" validate:"omitempty,oneof=not_started in_progress at_risk on_hold delayed completed cancelled current planned past"`
	Priority        *string   `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Complexity      *string   `json:"complexity" validate:"omitempty,oneof=trivial easy moderate hard extreme"`
	StartDate       *Date     `json:"start_date"`
	EndDate         *Date     `json:"end_date"`
}

func (kr *KeyResult) Apply(in UpdateKeyResultInput) {
	if in.MemberID != nil {
		kr.MemberID = *in.MemberID
	}
	if in.ObjectiveID.Set {
		kr.ObjectiveID = in.ObjectiveID.Ptr()
	}
	if in.Title != nil {
		kr.Title = *in.Title
	}
	if in.Description != nil {
		kr.Description = in.Description
	}
	if in.ValueDefinition != nil {
		kr.ValueDefinition = *in.ValueDefinition
	}
	if in.Unit != nil {
		kr.Unit = *in.Unit
	}
	if in.StartValue != nil {
		kr.StartValue = *in.StartValue
	}
	if in.CurrentValue != nil {
		kr.CurrentValue = *in.CurrentValue
	}
	if in.TargetValue != nil {
		kr.TargetValue = *in.TargetValue
	}
	if in.Status != nil {
		kr.Status = *in.Status
	}
	if in.Priority != nil {
		kr.Priority = *in.Priority
	}
	if in.Complexity != nil {
		kr.Complexity = *in.Complexity
	}
	if in.StartDate != nil {
		kr.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		kr.EndDate = in.EndDate
	}
}
