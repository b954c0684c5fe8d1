package dto

import (
	"shiftdesk/internal/models"

	"github.com/google/uuid"
)

type CreateJobRequest struct {
	BusinessID   uuid.UUID `json:"-"` // Set from user context
	Title        string    `json:"title" validate:"required"`
	HourlyRate   float64   `json:"hourly_rate" validate:"required,gt=0"`
	Location     string    `json:"location" validate:"required"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
}

type ListOpenJobsRequest struct {
	MinRate *float64 `form:"min_rate" validate:"omitempty,gte=0"`
	MaxRate *float64 `form:"max_rate" validate:"omitempty,gte=0"`
	Limit   int      `form:"limit,default=10" validate:"omitempty,gte=0"`
	Offset  int      `form:"offset,default=0" validate:"omitempty,gte=0"`
}

type UpdateJobStatusRequest struct {
	ID                  uuid.UUID        `json:"-" validate:"required"`
	Status              models.JobStatus `json:"-" validate:"required"`
	AcceptedApplicantID *uuid.UUID       `json:"-"`
}

type DeleteJobRequest struct {
	ID     uuid.UUID `json:"-" validate:"required"` // From path
	UserID uuid.UUID `json:"-"`                     // Set from user context for auth check
}

type SubmitJobApplicationRequest struct {
	JobID       uuid.UUID `json:"-" validate:"required"` // From path
	ApplicantID uuid.UUID `json:"-"`                     // Set from user context
	Message     string    `json:"message" validate:"omitempty,max=1000"`
}

type WithdrawJobApplicationRequest struct {
	JobID       uuid.UUID `json:"-" validate:"required"`
	ApplicantID uuid.UUID `json:"-"`
}

type AcceptJobApplicantRequest struct {
	JobID       uuid.UUID `json:"-" validate:"required"`
	ApplicantID uuid.UUID `json:"applicant_id" validate:"required"`
	ActorID     uuid.UUID `json:"-"`
}

type JobResponse struct {
	ID                  uuid.UUID        `json:"id"`
	BusinessID          uuid.UUID        `json:"business_id"`
	Title               string           `json:"title"`
	HourlyRate          float64          `json:"hourly_rate"`
	Location            string           `json:"location"`
	Description         string           `json:"description"`
	Requirements        []string         `json:"requirements"`
	Status              models.JobStatus `json:"status"`
	AcceptedApplicantID *uuid.UUID       `json:"accepted_applicant_id,omitempty"`
	CreatedAt           string           `json:"created_at"`
	UpdatedAt           string           `json:"updated_at"`
}
