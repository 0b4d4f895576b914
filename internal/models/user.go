package models

import "time"

// User is an authentication identity. Login happens by UserName.
type User struct {
	ID           int64     `db:"id" json:"id"`
	UserName     string    `db:"user_name" json:"user_name"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Position     *string   `db:"position" json:"position"`
	Notes        *string   `db:"notes" json:"notes"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"phone" json:"phone"`
	PasswordHash string    `db:"hashed_password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateUserInput struct {
	UserName  string  `json:"user_name" validate:"required,min=2,max=255"`
	FirstName string  `json:"first_name" validate:"required,max=255"`
	LastName  string  `json:"last_name" validate:"required,max=255"`
	Position  *string `json:"position" validate:"omitempty,max=255"`
	Notes     *string `json:"notes"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=64"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserInput is a partial update. Password is honoured only by the
// administrative user endpoints; the profile endpoint rejects it.
type UpdateUserInput struct {
	UserName  *string `json:"user_name" validate:"omitempty,min=2,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=255"`
	Position  *string `json:"position" validate:"omitempty,max=255"`
	Notes     *string `json:"notes"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=64"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// Apply copies the present profile fields onto u. Password is handled by the
// caller because it must be hashed first.
func (u *User) Apply(in UpdateUserInput) {
	if in.UserName != nil {
		u.UserName = *in.UserName
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Position != nil {
		u.Position = in.Position
	}
	if in.Notes != nil {
		u.Notes = in.Notes
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}
