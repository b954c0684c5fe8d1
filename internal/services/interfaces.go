package services

import (
	"context"
	"time"

	"shiftdesk/internal/models"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, error) // Returns user and token
	GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error)
}

// ShiftService defines the interface for shift posting business logic,
// including the completion/expiry side of the lifecycle.
type ShiftService interface {
	CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error)
	GetShiftByID(ctx context.Context, id uuid.UUID) (*models.Shift, error)
	ListOpenShifts(ctx context.Context, req *dto.ListOpenShiftsRequest) ([]models.Shift, error)
	ListShiftsByBusiness(ctx context.Context, req *dto.ListShiftsByBusinessRequest) ([]models.Shift, error)
	DeleteShift(ctx context.Context, req *dto.DeleteShiftRequest) error
	// CompleteOrExpire moves a shift past its end time to Completed (if
	// Filled) or Expired (if Open). Idempotent: calling it again after the
	// threshold returns the terminal state without error.
	CompleteOrExpire(ctx context.Context, shiftID uuid.UUID, now time.Time) (*models.Shift, error)
	// SweepDue applies CompleteOrExpire to every due shift and reports
	// how many transitioned.
	SweepDue(ctx context.Context, now time.Time) (int, error)
}

// ApplicationService defines the interface for the shift application
// lifecycle: submit, withdraw, accept, reject, confirm, and match
// evaluation.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.Application, error)
	WithdrawApplication(ctx context.Context, req *dto.WithdrawApplicationRequest) error
	AcceptApplicant(ctx context.Context, req *dto.AcceptApplicantRequest) (*models.Shift, error) // Returns the updated Shift
	RejectApplicant(ctx context.Context, req *dto.RejectApplicantRequest) (*models.Application, error)
	ConfirmShift(ctx context.Context, req *dto.ConfirmShiftRequest) (*models.Application, error)
	ListApplicationsByShift(ctx context.Context, req *dto.ListApplicationsByTargetRequest) ([]models.Application, error)
	ListApplicationsByApplicant(ctx context.Context, req *dto.ListApplicationsByApplicantRequest) ([]models.Application, error)
	EvaluateMatch(ctx context.Context, req *dto.EvaluateMatchRequest) (*dto.MatchResponse, error)
}

// JobService defines the interface for ongoing job postings. Jobs share
// the application lifecycle with shifts but have no date, so they are
// closed by their owner instead of expiring.
type JobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListOpenJobs(ctx context.Context, req *dto.ListOpenJobsRequest) ([]models.Job, error)
	DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) error
	CloseJob(ctx context.Context, jobID, actorID uuid.UUID) (*models.Job, error)
	SubmitApplication(ctx context.Context, req *dto.SubmitJobApplicationRequest) (*models.Application, error)
	WithdrawApplication(ctx context.Context, req *dto.WithdrawJobApplicationRequest) error
	AcceptApplicant(ctx context.Context, req *dto.AcceptJobApplicantRequest) (*models.Job, error)
}
