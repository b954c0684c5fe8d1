package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

type shiftService struct {
	store    storage.Store
	emitter  events.Emitter
	recorder metrics.Recorder
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(store storage.Store, emitter events.Emitter, recorder metrics.Recorder) ShiftService {
	return &shiftService{
		store:    store,
		emitter:  emitter,
		recorder: recorder,
	}
}

// CreateShift creates a new open shift for the posting business.
func (s *shiftService) CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	// 1. Resolve the posting business; its display name is denormalized
	// onto the shift.
	business, err := s.store.Users().GetByID(ctx, &dto.GetUserByIDRequest{ID: req.BusinessID})
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching business %s", req.BusinessID))
	}
	if business.Role != models.UserRoleBusiness {
		log.Printf("CreateShift: User %s with role %s attempted to post a shift", business.ID, business.Role)
		return nil, fmt.Errorf("%w: only business accounts can post shifts", ErrForbidden)
	}
	req.BusinessName = business.Name

	// 2. Validate times
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("%w: shift end time must be after start time", ErrValidation)
	}

	shift, err := s.store.Shifts().Create(ctx, req)
	if err != nil {
		log.Printf("CreateShift: Error creating shift in repo: %v", err)
		return nil, mapRepoError(err, "creating shift")
	}

	return shift, nil
}

func (s *shiftService) GetShiftByID(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	shift, err := s.store.Shifts().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s", id))
	}
	return shift, nil
}

func (s *shiftService) ListOpenShifts(ctx context.Context, req *dto.ListOpenShiftsRequest) ([]models.Shift, error) {
	shifts, err := s.store.Shifts().ListOpen(ctx, req)
	if err != nil {
		log.Printf("ListOpenShifts: Error listing open shifts: %v", err)
		return nil, mapRepoError(err, "listing open shifts")
	}
	return shifts, nil
}

func (s *shiftService) ListShiftsByBusiness(ctx context.Context, req *dto.ListShiftsByBusinessRequest) ([]models.Shift, error) {
	shifts, err := s.store.Shifts().ListByBusiness(ctx, req)
	if err != nil {
		log.Printf("ListShiftsByBusiness: Error listing shifts for business %s: %v", req.BusinessID, err)
		return nil, mapRepoError(err, fmt.Sprintf("listing shifts for business %s", req.BusinessID))
	}
	return shifts, nil
}

// DeleteShift removes an open shift. Filled or terminal shifts cannot be
// deleted; they carry history other users depend on.
func (s *shiftService) DeleteShift(ctx context.Context, req *dto.DeleteShiftRequest) error {
	shift, err := s.store.Shifts().GetByID(ctx, req.ID)
	if err != nil {
		return mapRepoError(err, fmt.Sprintf("fetching shift %s for deletion", req.ID))
	}

	if shift.BusinessID != req.UserID {
		log.Printf("DeleteShift: Forbidden attempt by user %s on shift %s owned by %s", req.UserID, shift.ID, shift.BusinessID)
		return ErrForbidden
	}
	if shift.Status != models.ShiftStatusOpen {
		log.Printf("DeleteShift: Attempt to delete non-open shift %s (Status: %s)", shift.ID, shift.Status)
		return fmt.Errorf("%w: only open shifts can be deleted", ErrConflict)
	}

	if err := s.store.Shifts().Delete(ctx, req.ID); err != nil {
		log.Printf("DeleteShift: Error deleting shift %s: %v", req.ID, err)
		return mapRepoError(err, fmt.Sprintf("deleting shift %s", req.ID))
	}
	return nil
}

// CompleteOrExpire drives a shift past its end time into its terminal
// state: Filled becomes Completed, Open becomes Expired. Pending
// applications on an expiring shift are cascade-rejected so applicants
// are not left waiting on a dead posting. The operation is idempotent;
// calling it again after the threshold returns the terminal shift
// unchanged.
func (s *shiftService) CompleteOrExpire(ctx context.Context, shiftID uuid.UUID, now time.Time) (*models.Shift, error) {
	// --- Transaction Start ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("CompleteOrExpire: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Fetch and lock the Shift (within transaction)
	shift, err := tx.Shifts().GetForUpdate(ctx, shiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s within transaction", shiftID))
	}

	// 2. Already terminal: nothing to do.
	if shift.Status == models.ShiftStatusCompleted || shift.Status == models.ShiftStatusExpired {
		return shift, nil
	}

	// 3. Not yet due: nothing to do.
	if shift.EndsAt.After(now) {
		return shift, nil
	}

	var target models.ShiftStatus
	switch shift.Status {
	case models.ShiftStatusFilled:
		target = models.ShiftStatusCompleted
	case models.ShiftStatusOpen:
		target = models.ShiftStatusExpired
	default:
		return nil, fmt.Errorf("%w: shift %s has unexpected status %s", ErrInvalidState, shift.ID, shift.Status)
	}
	if !isValidShiftTransition(shift.Status, target) {
		return nil, fmt.Errorf("%w: cannot move shift %s from %s to %s", ErrInvalidState, shift.ID, shift.Status, target)
	}

	// 4. For an expiring shift, reject what is still pending (within
	// transaction).
	var rejected []uuid.UUID
	if target == models.ShiftStatusExpired {
		rejected, err = tx.Applications().RejectPendingByTarget(ctx, models.TargetShift, shift.ID, nil)
		if err != nil {
			log.Printf("CompleteOrExpire: Error rejecting pending applications for shift %s: %v", shift.ID, err)
			return nil, mapRepoError(err, "rejecting pending applications")
		}
	}

	// 5. Move the Shift (within transaction)
	updatedShift, err := tx.Shifts().UpdateStatus(ctx, &dto.UpdateShiftStatusRequest{ID: shift.ID, Status: target})
	if err != nil {
		log.Printf("CompleteOrExpire: Error updating shift %s to %s: %v", shift.ID, target, err)
		return nil, mapRepoError(err, "updating shift status")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("CompleteOrExpire: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing shift transition: %w", err)
	}
	// --- End Transaction ---

	switch target {
	case models.ShiftStatusCompleted:
		s.recorder.ShiftCompleted()
		s.emitter.Emit(ctx, events.Event{
			Type:        events.EventShiftCompleted,
			RecipientID: shift.BusinessID,
			TargetKind:  models.TargetShift,
			TargetID:    shift.ID,
		})
		if shift.AcceptedApplicantID != nil {
			s.emitter.Emit(ctx, events.Event{
				Type:        events.EventShiftCompleted,
				RecipientID: *shift.AcceptedApplicantID,
				TargetKind:  models.TargetShift,
				TargetID:    shift.ID,
			})
		}
	case models.ShiftStatusExpired:
		s.recorder.ShiftExpired()
		s.recorder.ApplicationsRejected(string(models.TargetShift), len(rejected))
		s.emitter.Emit(ctx, events.Event{
			Type:        events.EventShiftExpired,
			RecipientID: shift.BusinessID,
			TargetKind:  models.TargetShift,
			TargetID:    shift.ID,
		})
	}

	log.Printf("Shift %s moved to %s (%d pending applications rejected)", shift.ID, target, len(rejected))
	return updatedShift, nil
}

// SweepDue finds shifts past their end time and transitions each one.
// Individual failures are logged and skipped so one bad row cannot stall
// the sweep.
func (s *shiftService) SweepDue(ctx context.Context, now time.Time) (int, error) {
	dueShifts, err := s.store.Shifts().ListDue(ctx, &dto.ListDueShiftsRequest{Now: now})
	if err != nil {
		log.Printf("SweepDue: Error listing due shifts: %v", err)
		return 0, mapRepoError(err, "listing due shifts")
	}

	processed := 0
	for _, shift := range dueShifts {
		if _, err := s.CompleteOrExpire(ctx, shift.ID, now); err != nil {
			// A shift transitioned by a concurrent call is not a sweep
			// failure.
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
				continue
			}
			log.Printf("SweepDue: Error transitioning shift %s: %v", shift.ID, err)
			continue
		}
		processed++
	}

	return processed, nil
}
