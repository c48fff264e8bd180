package admin

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office user. Every admin belongs to one branch.
type Admin struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Branch    string    `json:"branch"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewAdmin struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Branch   string `json:"branch" validate:"required"`
}

type LoginResult struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Branch string    `json:"branch"`
	Token  string    `json:"token"`
}
