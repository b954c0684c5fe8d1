package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

// isValidShiftTransition defines the allowed shift status changes.
// Filled, Completed and Expired are terminal for everything except the
// completion sweep, which drives Filled to Completed.
func isValidShiftTransition(from, to models.ShiftStatus) bool {
	switch from {
	case models.ShiftStatusOpen:
		return to == models.ShiftStatusFilled || to == models.ShiftStatusExpired
	case models.ShiftStatusFilled:
		return to == models.ShiftStatusCompleted
	case models.ShiftStatusCompleted, models.ShiftStatusExpired:
		// Terminal states
		return false
	default:
		return false
	}
}

// isValidApplicationTransition defines the allowed application status
// changes: Pending -> Accepted -> Confirmed, or Pending -> Rejected.
func isValidApplicationTransition(from, to models.ApplicationStatus) bool {
	switch from {
	case models.ApplicationStatusPending:
		return to == models.ApplicationStatusAccepted || to == models.ApplicationStatusRejected
	case models.ApplicationStatusAccepted:
		return to == models.ApplicationStatusConfirmed
	case models.ApplicationStatusRejected, models.ApplicationStatusConfirmed:
		// Terminal states
		return false
	default:
		return false
	}
}

// isValidJobTransition defines the allowed job status changes. A job has
// no date, so it never expires; its owner fills or closes it.
func isValidJobTransition(from, to models.JobStatus) bool {
	switch from {
	case models.JobStatusOpen:
		return to == models.JobStatusFilled || to == models.JobStatusClosed
	case models.JobStatusFilled:
		return to == models.JobStatusClosed
	case models.JobStatusClosed:
		return false
	default:
		return false
	}
}

// actorIsAdmin reports whether the given user exists and has the admin
// role. An unknown actor is treated as not admin rather than an error;
// ownership checks decide the final outcome.
func actorIsAdmin(ctx context.Context, users storage.UserRepository, actorID uuid.UUID) (bool, error) {
	user, err := users.GetByID(ctx, &dto.GetUserByIDRequest{ID: actorID})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, mapRepoError(err, fmt.Sprintf("fetching actor %s", actorID))
	}
	return user.Role == models.UserRoleAdmin, nil
}

// mapRepoError maps storage errors to service errors
func mapRepoError(err error, operation string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrDuplicate) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	// Log other unexpected errors
	log.Printf("Unexpected repository error during %s: %v", operation, err)
	return fmt.Errorf("internal error during %s: %w", operation, err)
}
