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

const applicationColumns = `id, target_kind, target_id, applicant_id, message, status, created_at, updated_at`

// ApplicationRepo implements the storage.ApplicationRepository interface using PostgreSQL.
type ApplicationRepo struct {
	db Querier
}

// Compile-time check to ensure ApplicationRepo implements ApplicationRepository
var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID,
		&a.TargetKind,
		&a.TargetID,
		&a.ApplicantID,
		&a.Message,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create saves a new Pending application. The composite unique index on
// (target_kind, target_id, applicant_id) turns duplicate submissions into
// storage.ErrDuplicate.
func (r *ApplicationRepo) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.Application, error) {
	query := fmt.Sprintf(`
		INSERT INTO applications (id, target_kind, target_id, applicant_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s
	`, applicationColumns)

	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		req.TargetKind,
		req.TargetID,
		req.ApplicantID,
		req.Message,
		models.ApplicationStatusPending,
	)

	createdApp, err := scanApplication(row)
	if err != nil {
		log.Printf("Error creating application for %s %s by %s: %v\n", req.TargetKind, req.TargetID, req.ApplicantID, err)
		return nil, fmt.Errorf("failed to create application: %w", mapPgError(err))
	}

	log.Printf("Application created successfully with ID: %s", createdApp.ID)
	return createdApp, nil
}

// GetByID retrieves a specific application by its ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE id = $1`, applicationColumns)

	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Application not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning application by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get application by ID %s: %w", id, err)
	}

	return app, nil
}

// GetByTargetAndApplicant retrieves the single application one user made
// to one posting.
func (r *ApplicationRepo) GetByTargetAndApplicant(ctx context.Context, kind models.TargetKind, targetID, applicantID uuid.UUID) (*models.Application, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM applications
		WHERE target_kind = $1 AND target_id = $2 AND applicant_id = $3
	`, applicationColumns)

	app, err := scanApplication(r.db.QueryRow(ctx, query, kind, targetID, applicantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning application for %s %s by %s: %v\n", kind, targetID, applicantID, err)
		return nil, fmt.Errorf("failed to get application for %s %s: %w", kind, targetID, err)
	}

	return app, nil
}

// ListByTarget retrieves applications for one posting.
func (r *ApplicationRepo) ListByTarget(ctx context.Context, req *dto.ListApplicationsByTargetRequest) ([]models.Application, error) {
	baseQuery := fmt.Sprintf(`SELECT %s FROM applications`, applicationColumns)
	conditions := []string{"target_kind = $1", "target_id = $2"}
	args := []interface{}{req.TargetKind, req.TargetID}

	query := buildListQuery(baseQuery, conditions, &args, req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying applications by target %s %s: %v\n", req.TargetKind, req.TargetID, err)
		return nil, fmt.Errorf("failed to list applications by target: %w", err)
	}
	defer rows.Close()

	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Application])
	if err != nil {
		log.Printf("Error scanning applications by target %s %s: %v\n", req.TargetKind, req.TargetID, err)
		return nil, fmt.Errorf("failed to scan applications by target: %w", err)
	}

	if apps == nil {
		apps = []models.Application{}
	}

	return apps, nil
}

// ListByApplicant retrieves applications submitted by one user.
func (r *ApplicationRepo) ListByApplicant(ctx context.Context, req *dto.ListApplicationsByApplicantRequest) ([]models.Application, error) {
	baseQuery := fmt.Sprintf(`SELECT %s FROM applications`, applicationColumns)
	conditions := []string{"applicant_id = $1"}
	args := []interface{}{req.ApplicantID}

	query := buildListQuery(baseQuery, conditions, &args, req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying applications by applicant %s: %v\n", req.ApplicantID, err)
		return nil, fmt.Errorf("failed to list applications by applicant: %w", err)
	}
	defer rows.Close()

	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Application])
	if err != nil {
		log.Printf("Error scanning applications by applicant %s: %v\n", req.ApplicantID, err)
		return nil, fmt.Errorf("failed to scan applications by applicant: %w", err)
	}

	if apps == nil {
		apps = []models.Application{}
	}

	return apps, nil
}

// UpdateStatus sets the status of a single application.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	query := fmt.Sprintf(`
		UPDATE applications
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s
	`, applicationColumns)

	updatedApp, err := scanApplication(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Application not found for status update with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating application status for ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update application status: %w", mapPgError(err))
	}

	return updatedApp, nil
}

// RejectPendingByTarget flips every remaining Pending application for the
// target to Rejected in one statement and reports the affected applicants.
func (r *ApplicationRepo) RejectPendingByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, exclude *uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE applications
		SET status = $1, updated_at = NOW()
		WHERE target_kind = $2 AND target_id = $3 AND status = $4
	`
	args := []interface{}{models.ApplicationStatusRejected, kind, targetID, models.ApplicationStatusPending}

	if exclude != nil {
		args = append(args, *exclude)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += " RETURNING applicant_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error rejecting pending applications for %s %s: %v\n", kind, targetID, err)
		return nil, fmt.Errorf("failed to reject pending applications for %s %s: %w", kind, targetID, err)
	}
	defer rows.Close()

	applicantIDs, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		log.Printf("Error collecting rejected applicant ids for %s %s: %v\n", kind, targetID, err)
		return nil, fmt.Errorf("failed to collect rejected applicants: %w", err)
	}

	log.Printf("Rejected %d pending applications for %s %s", len(applicantIDs), kind, targetID)
	return applicantIDs, nil
}

// Delete removes an application by its ID.
func (r *ApplicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM applications WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("Error deleting application %s: %v\n", id, err)
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Printf("Application not found for deletion with ID: %s\n", id)
		return storage.ErrNotFound
	}

	log.Printf("Application deleted successfully with ID: %s", id)
	return nil
}
