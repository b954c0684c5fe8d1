package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, business_id, title, hourly_rate, location, description, requirements,
	status, accepted_applicant_id, created_at, updated_at`

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID,
		&j.BusinessID,
		&j.Title,
		&j.HourlyRate,
		&j.Location,
		&j.Description,
		&j.Requirements,
		&j.Status,
		&j.AcceptedApplicantID,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create saves a new job posting with status Open.
func (r *JobRepo) Create(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO jobs (id, business_id, title, hourly_rate, location, description, requirements, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s
	`, jobColumns)

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		req.BusinessID,
		req.Title,
		req.HourlyRate,
		req.Location,
		req.Description,
		requirements,
		models.JobStatusOpen,
	)

	createdJob, err := scanJob(row)
	if err != nil {
		log.Printf("Error creating job: %v\n", err)
		return nil, fmt.Errorf("failed to create job: %w", mapPgError(err))
	}

	log.Printf("Job created successfully with ID: %s", createdJob.ID)
	return createdJob, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning job by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job by ID %s: %w", id, err)
	}

	return job, nil
}

// GetForUpdate retrieves a job and locks its row until the enclosing
// transaction ends.
func (r *JobRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1 FOR UPDATE`, jobColumns)

	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found for update with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error locking job %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to lock job %s: %w", id, err)
	}

	return job, nil
}

// ListOpen retrieves open jobs, optionally filtered by rate.
func (r *JobRepo) ListOpen(ctx context.Context, req *dto.ListOpenJobsRequest) ([]models.Job, error) {
	baseQuery := fmt.Sprintf(`SELECT %s FROM jobs`, jobColumns)
	conditions := []string{"status = $1"}
	args := []interface{}{models.JobStatusOpen}

	if req.MinRate != nil {
		args = append(args, *req.MinRate)
		conditions = append(conditions, fmt.Sprintf("hourly_rate >= $%d", len(args)))
	}
	if req.MaxRate != nil {
		args = append(args, *req.MaxRate)
		conditions = append(conditions, fmt.Sprintf("hourly_rate <= $%d", len(args)))
	}

	query := buildListQuery(baseQuery, conditions, &args, req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying open jobs: %v\n", err)
		return nil, fmt.Errorf("failed to query open jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		log.Printf("Error scanning open jobs: %v\n", err)
		return nil, fmt.Errorf("failed to scan open jobs: %w", err)
	}

	if jobs == nil {
		jobs = []models.Job{}
	}

	return jobs, nil
}

// UpdateStatus moves a job to the given status, recording the accepted
// applicant when provided.
func (r *JobRepo) UpdateStatus(ctx context.Context, req *dto.UpdateJobStatusRequest) (*models.Job, error) {
	var row pgx.Row
	if req.AcceptedApplicantID != nil {
		query := fmt.Sprintf(`
			UPDATE jobs
			SET status = $1, accepted_applicant_id = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING %s
		`, jobColumns)
		row = r.db.QueryRow(ctx, query, req.Status, *req.AcceptedApplicantID, req.ID)
	} else {
		query := fmt.Sprintf(`
			UPDATE jobs
			SET status = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING %s
		`, jobColumns)
		row = r.db.QueryRow(ctx, query, req.Status, req.ID)
	}

	updatedJob, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found for status update with ID: %s\n", req.ID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating job status for %s: %v\n", req.ID, err)
		return nil, fmt.Errorf("failed to update job status: %w", mapPgError(err))
	}

	return updatedJob, nil
}

// Delete removes a job by its ID.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM jobs WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("Error deleting job %s: %v\n", id, err)
		return fmt.Errorf("failed to delete job %s: %w", id, mapPgError(err))
	}

	if cmdTag.RowsAffected() == 0 {
		log.Printf("Job not found for deletion with ID: %s\n", id)
		return storage.ErrNotFound
	}

	log.Printf("Job deleted successfully with ID: %s", id)
	return nil
}
