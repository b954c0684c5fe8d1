package memory

import (
	"context"
	"sort"
	"time"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

type ShiftRepo struct {
	store *Store
	inTx  bool
}

var _ storage.ShiftRepository = (*ShiftRepo)(nil)

func (r *ShiftRepo) Create(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	now := time.Now()
	shift := models.Shift{
		ID:           uuid.New(),
		BusinessID:   req.BusinessID,
		BusinessName: req.BusinessName,
		Role:         req.Role,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		HourlyRate:   req.HourlyRate,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: requirements,
		Languages:    languages,
		Status:       models.ShiftStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.store.shifts[shift.ID] = shift
	return &shift, nil
}

func (r *ShiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	shift, ok := r.store.shifts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &shift, nil
}

// GetForUpdate behaves like GetByID; the transaction already holds the
// store-wide write lock, so no finer lock is needed.
func (r *ShiftRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	return r.GetByID(ctx, id)
}

func (r *ShiftRepo) ListOpen(ctx context.Context, req *dto.ListOpenShiftsRequest) ([]models.Shift, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	shifts := []models.Shift{}
	for _, s := range r.store.shifts {
		if s.Status != models.ShiftStatusOpen {
			continue
		}
		if req.Role != nil && s.Role != *req.Role {
			continue
		}
		if req.MinRate != nil && s.HourlyRate < *req.MinRate {
			continue
		}
		if req.MaxRate != nil && s.HourlyRate > *req.MaxRate {
			continue
		}
		shifts = append(shifts, s)
	}

	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].CreatedAt.After(shifts[j].CreatedAt)
	})

	return paginate(shifts, req.Offset, req.Limit), nil
}

func (r *ShiftRepo) ListByBusiness(ctx context.Context, req *dto.ListShiftsByBusinessRequest) ([]models.Shift, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	shifts := []models.Shift{}
	for _, s := range r.store.shifts {
		if s.BusinessID != req.BusinessID {
			continue
		}
		if req.Status != nil && s.Status != *req.Status {
			continue
		}
		shifts = append(shifts, s)
	}

	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].CreatedAt.After(shifts[j].CreatedAt)
	})

	return paginate(shifts, req.Offset, req.Limit), nil
}

func (r *ShiftRepo) ListDue(ctx context.Context, req *dto.ListDueShiftsRequest) ([]models.Shift, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	shifts := []models.Shift{}
	for _, s := range r.store.shifts {
		if s.Status != models.ShiftStatusOpen && s.Status != models.ShiftStatusFilled {
			continue
		}
		if s.EndsAt.After(req.Now) {
			continue
		}
		shifts = append(shifts, s)
	}

	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].EndsAt.Before(shifts[j].EndsAt)
	})

	return paginate(shifts, 0, limit), nil
}

func (r *ShiftRepo) UpdateStatus(ctx context.Context, req *dto.UpdateShiftStatusRequest) (*models.Shift, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	shift, ok := r.store.shifts[req.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	shift.Status = req.Status
	if req.AcceptedApplicantID != nil {
		id := *req.AcceptedApplicantID
		shift.AcceptedApplicantID = &id
	}
	shift.UpdatedAt = time.Now()

	r.store.shifts[shift.ID] = shift
	return &shift, nil
}

func (r *ShiftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	if _, ok := r.store.shifts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.store.shifts, id)
	return nil
}
