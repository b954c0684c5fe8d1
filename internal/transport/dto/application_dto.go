package dto

import (
	"shiftdesk/internal/models"

	"github.com/google/uuid"
)

// CreateApplicationRequest is used internally by the submit operations.
type CreateApplicationRequest struct {
	TargetKind  models.TargetKind `json:"-"`
	TargetID    uuid.UUID         `json:"-"`
	ApplicantID uuid.UUID         `json:"-"`
	Message     string            `json:"message"`
}

// SubmitApplicationRequest carries the inbound apply call for a shift.
type SubmitApplicationRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"` // From path
	ApplicantID uuid.UUID `json:"-"`                     // Set from user context
	Message     string    `json:"message" validate:"omitempty,max=1000"`
}

type WithdrawApplicationRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"` // From path
	ApplicantID uuid.UUID `json:"-"`                     // Set from user context
}

type AcceptApplicantRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"`            // From path
	ApplicantID uuid.UUID `json:"applicant_id" validate:"required"` // From request body
	ActorID     uuid.UUID `json:"-"`                                // Set from user context
}

type RejectApplicantRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"`
	ApplicantID uuid.UUID `json:"applicant_id" validate:"required"`
	ActorID     uuid.UUID `json:"-"`
}

type ConfirmShiftRequest struct {
	ShiftID     uuid.UUID `json:"-" validate:"required"` // From path
	ApplicantID uuid.UUID `json:"-"`                     // Set from user context
}

type ListApplicationsByTargetRequest struct {
	TargetKind models.TargetKind `json:"-" validate:"required"`
	TargetID   uuid.UUID         `json:"-" validate:"required"` // From path
	UserID     uuid.UUID         `json:"-"`                     // Set from user context for auth check
	Limit      int               `form:"limit,default=10" validate:"omitempty,gte=0"`
	Offset     int               `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type ListApplicationsByApplicantRequest struct {
	ApplicantID uuid.UUID `json:"-" validate:"required"` // Set from user context
	Limit       int       `form:"limit,default=10" validate:"omitempty,gte=0"`
	Offset      int       `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type ApplicationResponse struct {
	ID          uuid.UUID                `json:"id"`
	TargetKind  models.TargetKind        `json:"target_kind"`
	TargetID    uuid.UUID                `json:"target_id"`
	ApplicantID uuid.UUID                `json:"applicant_id"`
	Message     string                   `json:"message,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	CreatedAt   string                   `json:"created_at"`
	UpdatedAt   string                   `json:"updated_at"`
}
