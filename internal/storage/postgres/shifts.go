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

const shiftColumns = `id, business_id, business_name, role, starts_at, ends_at, hourly_rate,
	location, description, requirements, languages, status, accepted_applicant_id,
	created_at, updated_at`

// ShiftRepo implements the storage.ShiftRepository interface using PostgreSQL.
type ShiftRepo struct {
	db Querier
}

// Compile-time check to ensure ShiftRepo implements ShiftRepository
var _ storage.ShiftRepository = (*ShiftRepo)(nil)

func scanShift(row pgx.Row) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.BusinessName,
		&s.Role,
		&s.StartsAt,
		&s.EndsAt,
		&s.HourlyRate,
		&s.Location,
		&s.Description,
		&s.Requirements,
		&s.Languages,
		&s.Status,
		&s.AcceptedApplicantID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create saves a new shift posting with status Open.
func (r *ShiftRepo) Create(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	query := fmt.Sprintf(`
		INSERT INTO shifts (id, business_id, business_name, role, starts_at, ends_at,
			hourly_rate, location, description, requirements, languages, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s
	`, shiftColumns)

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		req.BusinessID,
		req.BusinessName,
		req.Role,
		req.StartsAt,
		req.EndsAt,
		req.HourlyRate,
		req.Location,
		req.Description,
		requirements,
		languages,
		models.ShiftStatusOpen,
	)

	createdShift, err := scanShift(row)
	if err != nil {
		log.Printf("Error creating shift: %v\n", err)
		return nil, fmt.Errorf("failed to create shift: %w", mapPgError(err))
	}

	log.Printf("Shift created successfully with ID: %s", createdShift.ID)
	return createdShift, nil
}

// GetByID retrieves a specific shift by its ID.
func (r *ShiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1`, shiftColumns)

	shift, err := scanShift(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Shift not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning shift by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get shift by ID %s: %w", id, err)
	}

	return shift, nil
}

// GetForUpdate retrieves a shift and locks its row until the enclosing
// transaction ends. Racing accepts for the same shift serialize here.
func (r *ShiftRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1 FOR UPDATE`, shiftColumns)

	shift, err := scanShift(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Shift not found for update with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error locking shift %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to lock shift %s: %w", id, err)
	}

	return shift, nil
}

// ListOpen retrieves open shifts, optionally filtered by role and rate.
func (r *ShiftRepo) ListOpen(ctx context.Context, req *dto.ListOpenShiftsRequest) ([]models.Shift, error) {
	baseQuery := fmt.Sprintf(`SELECT %s FROM shifts`, shiftColumns)
	conditions := []string{"status = $1"}
	args := []interface{}{models.ShiftStatusOpen}

	if req.Role != nil {
		args = append(args, *req.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
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
		log.Printf("Error querying open shifts: %v\n", err)
		return nil, fmt.Errorf("failed to query open shifts: %w", err)
	}
	defer rows.Close()

	shifts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Shift])
	if err != nil {
		log.Printf("Error scanning open shifts: %v\n", err)
		return nil, fmt.Errorf("failed to scan open shifts: %w", err)
	}

	if shifts == nil {
		shifts = []models.Shift{}
	}

	return shifts, nil
}

// ListByBusiness retrieves shifts posted by a specific business.
func (r *ShiftRepo) ListByBusiness(ctx context.Context, req *dto.ListShiftsByBusinessRequest) ([]models.Shift, error) {
	baseQuery := fmt.Sprintf(`SELECT %s FROM shifts`, shiftColumns)
	conditions := []string{"business_id = $1"}
	args := []interface{}{req.BusinessID}

	if req.Status != nil {
		args = append(args, *req.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := buildListQuery(baseQuery, conditions, &args, req.Offset, req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying shifts by business %s: %v\n", req.BusinessID, err)
		return nil, fmt.Errorf("failed to query shifts by business: %w", err)
	}
	defer rows.Close()

	shifts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Shift])
	if err != nil {
		log.Printf("Error scanning shifts by business %s: %v\n", req.BusinessID, err)
		return nil, fmt.Errorf("failed to scan shifts by business: %w", err)
	}

	if shifts == nil {
		shifts = []models.Shift{}
	}

	return shifts, nil
}

// ListDue retrieves shifts still Open or Filled whose end time has passed.
// Used by the completion/expiry sweep.
func (r *ShiftRepo) ListDue(ctx context.Context, req *dto.ListDueShiftsRequest) ([]models.Shift, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s FROM shifts
		WHERE status IN ($1, $2) AND ends_at <= $3
		ORDER BY ends_at ASC
		LIMIT $4
	`, shiftColumns)

	rows, err := r.db.Query(ctx, query, models.ShiftStatusOpen, models.ShiftStatusFilled, req.Now, limit)
	if err != nil {
		log.Printf("Error querying due shifts: %v\n", err)
		return nil, fmt.Errorf("failed to query due shifts: %w", err)
	}
	defer rows.Close()

	shifts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Shift])
	if err != nil {
		log.Printf("Error scanning due shifts: %v\n", err)
		return nil, fmt.Errorf("failed to scan due shifts: %w", err)
	}

	if shifts == nil {
		shifts = []models.Shift{}
	}

	return shifts, nil
}

// UpdateStatus moves a shift to the given status. For Filled the accepted
// applicant id is recorded; other statuses leave it untouched.
func (r *ShiftRepo) UpdateStatus(ctx context.Context, req *dto.UpdateShiftStatusRequest) (*models.Shift, error) {
	var row pgx.Row
	if req.AcceptedApplicantID != nil {
		query := fmt.Sprintf(`
			UPDATE shifts
			SET status = $1, accepted_applicant_id = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING %s
		`, shiftColumns)
		row = r.db.QueryRow(ctx, query, req.Status, *req.AcceptedApplicantID, req.ID)
	} else {
		query := fmt.Sprintf(`
			UPDATE shifts
			SET status = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING %s
		`, shiftColumns)
		row = r.db.QueryRow(ctx, query, req.Status, req.ID)
	}

	updatedShift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Shift not found for status update with ID: %s\n", req.ID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating shift status for %s: %v\n", req.ID, err)
		return nil, fmt.Errorf("failed to update shift status: %w", mapPgError(err))
	}

	return updatedShift, nil
}

// Delete removes a shift by its ID.
func (r *ShiftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM shifts WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("Error deleting shift %s: %v\n", id, err)
		return fmt.Errorf("failed to delete shift %s: %w", id, mapPgError(err))
	}

	if cmdTag.RowsAffected() == 0 {
		log.Printf("Shift not found for deletion with ID: %s\n", id)
		return storage.ErrNotFound
	}

	log.Printf("Shift deleted successfully with ID: %s", id)
	return nil
}
