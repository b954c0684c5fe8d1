package dto

import (
	"shiftdesk/internal/models"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name      string          `json:"name" validate:"required"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	Role      models.UserRole `json:"role" validate:"required,oneof=job_seeker business admin"`
	WorkRole  string          `json:"work_role"`
	Skills    []string        `json:"skills"`
	Languages []string        `json:"languages"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GetUserByIDRequest struct {
	ID uuid.UUID `json:"-" validate:"required"` // From path
}

type GetUserByEmailRequest struct {
	Email string `json:"-" validate:"required,email"`
}

type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	WorkRole  string          `json:"work_role"`
	Skills    []string        `json:"skills"`
	Languages []string        `json:"languages"`
	Rating    float64         `json:"rating"`
	CreatedAt string          `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
