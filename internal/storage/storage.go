package storage

import (
	"context"
	"shiftdesk/internal/models"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error)
	GetByEmail(ctx context.Context, req *dto.GetUserByEmailRequest) (*models.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
}

// ShiftRepository defines the interface for shift data operations.
type ShiftRepository interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shift, error)
	// GetForUpdate locks the shift row for the duration of the enclosing
	// transaction. Only meaningful on a transaction-scoped repository.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Shift, error)
	ListOpen(ctx context.Context, req *dto.ListOpenShiftsRequest) ([]models.Shift, error)
	ListByBusiness(ctx context.Context, req *dto.ListShiftsByBusinessRequest) ([]models.Shift, error)
	// ListDue returns shifts still Open or Filled whose end time has passed.
	ListDue(ctx context.Context, req *dto.ListDueShiftsRequest) ([]models.Shift, error)
	// UpdateStatus moves a shift to the given status and, for Filled,
	// records the accepted applicant.
	UpdateStatus(ctx context.Context, req *dto.UpdateShiftStatusRequest) (*models.Shift, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationRepository defines the interface for application data
// operations. All lookups are keyed by (target kind, target id, applicant)
// so shift and job applications share one implementation.
type ApplicationRepository interface {
	Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetByTargetAndApplicant(ctx context.Context, kind models.TargetKind, targetID, applicantID uuid.UUID) (*models.Application, error)
	ListByTarget(ctx context.Context, req *dto.ListApplicationsByTargetRequest) ([]models.Application, error)
	ListByApplicant(ctx context.Context, req *dto.ListApplicationsByApplicantRequest) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
	// RejectPendingByTarget flips every remaining Pending application for
	// the target to Rejected, excluding the given application id if any,
	// and returns the applicant ids that were affected.
	RejectPendingByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, exclude *uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobRepository defines the interface for job posting data operations.
type JobRepository interface {
	Create(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListOpen(ctx context.Context, req *dto.ListOpenJobsRequest) ([]models.Job, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateJobStatusRequest) (*models.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Tx is a transaction scope over the aggregate a lifecycle operation
// mutates. Repositories obtained from it see uncommitted writes and, on
// the Postgres backend, hold row locks until Commit or Rollback.
type Tx interface {
	Shifts() ShiftRepository
	Applications() ApplicationRepository
	Jobs() JobRepository
	Commit(ctx context.Context) error
	// Rollback after a successful Commit is a no-op.
	Rollback(ctx context.Context) error
}

// Store bundles the repositories with the transaction boundary.
type Store interface {
	Users() UserRepository
	Shifts() ShiftRepository
	Applications() ApplicationRepository
	Jobs() JobRepository
	BeginTx(ctx context.Context) (Tx, error)
}
