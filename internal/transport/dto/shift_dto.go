package dto

import (
	"time"

	"shiftdesk/internal/models"

	"github.com/google/uuid"
)

type CreateShiftRequest struct {
	BusinessID   uuid.UUID `json:"-"` // Set from user context
	BusinessName string    `json:"-"` // Resolved from the business account
	Role         string    `json:"role" validate:"required"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	EndsAt       time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	HourlyRate   float64   `json:"hourly_rate" validate:"required,gt=0"`
	Location     string    `json:"location" validate:"required"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Languages    []string  `json:"languages"`
}

type ListOpenShiftsRequest struct {
	Role    *string  `form:"role"`
	MinRate *float64 `form:"min_rate" validate:"omitempty,gte=0"`
	MaxRate *float64 `form:"max_rate" validate:"omitempty,gte=0"`
	Limit   int      `form:"limit,default=10" validate:"omitempty,gte=0"`
	Offset  int      `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type ListShiftsByBusinessRequest struct {
	BusinessID uuid.UUID           `json:"-" validate:"required"` // Set from user context
	Status     *models.ShiftStatus `form:"status"`
	Limit      int                 `form:"limit,default=10" validate:"omitempty,gte=0"`
	Offset     int                 `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type ListDueShiftsRequest struct {
	Now   time.Time `json:"-" validate:"required"`
	Limit int       `json:"-"`
}

// UpdateShiftStatusRequest moves a shift along its lifecycle. The
// repository does not validate transitions; that is the engine's job.
type UpdateShiftStatusRequest struct {
	ID                  uuid.UUID          `json:"-" validate:"required"`
	Status              models.ShiftStatus `json:"-" validate:"required"`
	AcceptedApplicantID *uuid.UUID         `json:"-"`
}

type DeleteShiftRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"` // From path
	UserID uuid.UUID `json:"-"`                     // Set from user context for auth check
}

type ShiftResponse struct {
	ID                  uuid.UUID          `json:"id"`
	BusinessID          uuid.UUID          `json:"business_id"`
	BusinessName        string             `json:"business_name"`
	Role                string             `json:"role"`
	StartsAt            time.Time          `json:"starts_at"`
	EndsAt              time.Time          `json:"ends_at"`
	HourlyRate          float64            `json:"hourly_rate"`
	Location            string             `json:"location"`
	Description         string             `json:"description"`
	Requirements        []string           `json:"requirements"`
	Languages           []string           `json:"languages"`
	Status              models.ShiftStatus `json:"status"`
	AcceptedApplicantID *uuid.UUID         `json:"accepted_applicant_id,omitempty"`
	CreatedAt           string             `json:"created_at"`
	UpdatedAt           string             `json:"updated_at"`
}
