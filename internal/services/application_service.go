package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shiftdesk/internal/chat"
	"shiftdesk/internal/events"
	"shiftdesk/internal/matching"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"
)

type applicationService struct {
	store    storage.Store
	emitter  events.Emitter
	chat     chat.Bootstrapper
	recorder metrics.Recorder
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(store storage.Store, emitter events.Emitter, chatBootstrap chat.Bootstrapper, recorder metrics.Recorder) ApplicationService {
	return &applicationService{
		store:    store,
		emitter:  emitter,
		chat:     chatBootstrap,
		recorder: recorder,
	}
}

// SubmitApplication creates a new Pending application for an open shift.
// The shift row stays locked until the application is committed, so a
// submit cannot land behind a concurrent accept or expiry and leave a
// Pending application on a closed shift.
func (s *applicationService) SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	// --- Transaction Start ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("SubmitApplication: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Fetch and lock the Shift (within transaction)
	shift, err := tx.Shifts().GetForUpdate(ctx, req.ShiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s for application", req.ShiftID))
	}

	// 2. Validation
	if shift.Status != models.ShiftStatusOpen {
		log.Printf("SubmitApplication: Attempt to apply to non-open shift %s (Status: %s)", req.ShiftID, shift.Status)
		return nil, fmt.Errorf("%w: shift is not open for applications", ErrConflict)
	}
	if shift.BusinessID == req.ApplicantID {
		return nil, fmt.Errorf("%w: business cannot apply to its own shift", ErrForbidden)
	}

	_, err = tx.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, req.ShiftID, req.ApplicantID)
	if err == nil {
		log.Printf("SubmitApplication: Applicant %s already applied to shift %s", req.ApplicantID, req.ShiftID)
		return nil, ErrDuplicateApplication
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, mapRepoError(err, fmt.Sprintf("checking existing application for shift %s", req.ShiftID))
	}

	// 3. Create the application (within transaction). The composite unique
	// index backs up the check above.
	createReq := dto.CreateApplicationRequest{
		TargetKind:  models.TargetShift,
		TargetID:    req.ShiftID,
		ApplicantID: req.ApplicantID,
		Message:     req.Message,
	}
	application, err := tx.Applications().Create(ctx, &createReq)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicateApplication
		}
		log.Printf("SubmitApplication: Error creating application in repo: %v", err)
		return nil, mapRepoError(err, "creating application")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("SubmitApplication: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing application: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationSubmitted(string(models.TargetShift))
	s.emitter.Emit(ctx, events.Event{
		Type:        events.EventNewApplicant,
		RecipientID: shift.BusinessID,
		TargetKind:  models.TargetShift,
		TargetID:    shift.ID,
		ApplicantID: &application.ApplicantID,
	})

	return application, nil
}

// AcceptApplicant fills the shift with the chosen applicant. The status
// flip, the applicant assignment and the rejection of every other pending
// application happen in one transaction, so a racing accept on the same
// shift either sees the row lock and fails the Open check, or wins.
func (s *applicationService) AcceptApplicant(ctx context.Context, req *dto.AcceptApplicantRequest) (*models.Shift, error) {
	// 1. Resolve the actor's role up front; admins may accept on behalf
	// of any business.
	isAdmin, err := actorIsAdmin(ctx, s.store.Users(), req.ActorID)
	if err != nil {
		return nil, err
	}

	// --- Transaction Start ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("AcceptApplicant: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if anything fails

	// 2. Fetch and lock the Shift (within transaction)
	shift, err := tx.Shifts().GetForUpdate(ctx, req.ShiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s within transaction", req.ShiftID))
	}

	// 3. Authorization & State Checks
	if shift.BusinessID != req.ActorID && !isAdmin {
		log.Printf("AcceptApplicant: Forbidden attempt by user %s on shift %s owned by %s", req.ActorID, shift.ID, shift.BusinessID)
		return nil, ErrForbidden
	}
	if shift.Status != models.ShiftStatusOpen {
		log.Printf("AcceptApplicant: Attempt to accept applicant for non-open shift %s (Status: %s)", shift.ID, shift.Status)
		return nil, fmt.Errorf("%w: shift is no longer open", ErrConflict)
	}

	// 4. Fetch the Application (within transaction)
	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, req.ShiftID, req.ApplicantID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application for shift %s by %s", req.ShiftID, req.ApplicantID))
	}
	if application.Status != models.ApplicationStatusPending {
		log.Printf("AcceptApplicant: Attempt to accept non-pending application %s (Status: %s)", application.ID, application.Status)
		return nil, fmt.Errorf("%w: application is not pending", ErrConflict)
	}

	// 5. Update Application Status (within transaction)
	if _, err := tx.Applications().UpdateStatus(ctx, application.ID, models.ApplicationStatusAccepted); err != nil {
		log.Printf("AcceptApplicant: Error updating application status for %s: %v", application.ID, err)
		return nil, mapRepoError(err, "updating application status")
	}

	// 6. Fill the Shift and record the winner (within transaction)
	updateShiftReq := dto.UpdateShiftStatusRequest{
		ID:                  shift.ID,
		Status:              models.ShiftStatusFilled,
		AcceptedApplicantID: &application.ApplicantID,
	}
	updatedShift, err := tx.Shifts().UpdateStatus(ctx, &updateShiftReq)
	if err != nil {
		log.Printf("AcceptApplicant: Error updating shift %s: %v", shift.ID, err)
		return nil, mapRepoError(err, "updating shift status")
	}

	// 7. Reject every other pending application for the shift (within
	// transaction), in one statement so the single-winner invariant never
	// holds partially.
	rejectedApplicants, err := tx.Applications().RejectPendingByTarget(ctx, models.TargetShift, shift.ID, &application.ID)
	if err != nil {
		log.Printf("AcceptApplicant: Error rejecting other applications for shift %s: %v", shift.ID, err)
		return nil, mapRepoError(err, "rejecting other applications")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("AcceptApplicant: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing changes: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationAccepted(string(models.TargetShift))
	s.recorder.ApplicationsRejected(string(models.TargetShift), len(rejectedApplicants))

	s.emitter.Emit(ctx, events.Event{
		Type:        events.EventApplicationAccepted,
		RecipientID: application.ApplicantID,
		TargetKind:  models.TargetShift,
		TargetID:    shift.ID,
		ApplicantID: &application.ApplicantID,
	})
	for _, applicantID := range rejectedApplicants {
		id := applicantID
		s.emitter.Emit(ctx, events.Event{
			Type:        events.EventApplicationRejected,
			RecipientID: id,
			TargetKind:  models.TargetShift,
			TargetID:    shift.ID,
			ApplicantID: &id,
		})
	}
	s.chat.OpenConversation(ctx, models.TargetShift, shift.ID, shift.BusinessID, application.ApplicantID)

	log.Printf("Shift %s filled with applicant %s, %d other applications rejected", shift.ID, application.ApplicantID, len(rejectedApplicants))
	return updatedShift, nil
}

// RejectApplicant rejects a single pending application.
func (s *applicationService) RejectApplicant(ctx context.Context, req *dto.RejectApplicantRequest) (*models.Application, error) {
	isAdmin, err := actorIsAdmin(ctx, s.store.Users(), req.ActorID)
	if err != nil {
		return nil, err
	}

	// --- Transaction Start (Read-Check-Write pattern) ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("RejectApplicant: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Fetch and lock the Shift (within transaction) so the rejection
	// serializes with a racing accept; without the lock a reject that read
	// the application as Pending could commit over a fresh acceptance.
	shift, err := tx.Shifts().GetForUpdate(ctx, req.ShiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s", req.ShiftID))
	}

	// 2. Authorization Check: Only the posting business (or an admin) can reject
	if shift.BusinessID != req.ActorID && !isAdmin {
		log.Printf("RejectApplicant: Forbidden attempt by user %s on shift %s owned by %s", req.ActorID, shift.ID, shift.BusinessID)
		return nil, ErrForbidden
	}

	// 3. Fetch the Application (within transaction)
	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, req.ShiftID, req.ApplicantID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application for shift %s by %s", req.ShiftID, req.ApplicantID))
	}

	// 4. State Check: Can only reject pending applications
	if application.Status != models.ApplicationStatusPending {
		log.Printf("RejectApplicant: Attempt to reject non-pending application %s (Status: %s)", application.ID, application.Status)
		return nil, fmt.Errorf("%w: application is not pending, current status: %s", ErrConflict, application.Status)
	}

	// 5. Update Application Status (within transaction)
	updatedApp, err := tx.Applications().UpdateStatus(ctx, application.ID, models.ApplicationStatusRejected)
	if err != nil {
		log.Printf("RejectApplicant: Error updating application status for %s: %v", application.ID, err)
		return nil, mapRepoError(err, "updating application status")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("RejectApplicant: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing rejection: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationsRejected(string(models.TargetShift), 1)
	s.emitter.Emit(ctx, events.Event{
		Type:        events.EventApplicationRejected,
		RecipientID: updatedApp.ApplicantID,
		TargetKind:  models.TargetShift,
		TargetID:    req.ShiftID,
		ApplicantID: &updatedApp.ApplicantID,
	})

	log.Printf("Application %s rejected by user %s", updatedApp.ID, req.ActorID)
	return updatedApp, nil
}

// WithdrawApplication removes a pending application entirely, which
// allows the applicant to apply to the same shift again later.
func (s *applicationService) WithdrawApplication(ctx context.Context, req *dto.WithdrawApplicationRequest) error {
	// --- Transaction Start (Read-Check-Write pattern) ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("WithdrawApplication: Error beginning transaction: %v", err)
		return fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Lock the Shift (within transaction) so the withdrawal serializes
	// with a racing accept. A shift that was deleted cannot be accepting,
	// so the lingering application may still be withdrawn.
	if _, err := tx.Shifts().GetForUpdate(ctx, req.ShiftID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return mapRepoError(err, fmt.Sprintf("locking shift %s for withdrawal", req.ShiftID))
	}

	// 2. Fetch the Application (within transaction)
	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, req.ShiftID, req.ApplicantID)
	if err != nil {
		return mapRepoError(err, fmt.Sprintf("fetching application for shift %s by %s", req.ShiftID, req.ApplicantID))
	}

	// 3. State Check: Can only withdraw pending applications
	if application.Status != models.ApplicationStatusPending {
		log.Printf("WithdrawApplication: Attempt to withdraw non-pending application %s (Status: %s)", application.ID, application.Status)
		return fmt.Errorf("%w: application is not pending, current status: %s", ErrConflict, application.Status)
	}

	// 4. Delete the Application (within transaction)
	if err := tx.Applications().Delete(ctx, application.ID); err != nil {
		log.Printf("WithdrawApplication: Error deleting application %s: %v", application.ID, err)
		return mapRepoError(err, "deleting application")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("WithdrawApplication: Error committing transaction: %v", err)
		return fmt.Errorf("internal error committing withdrawal: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationWithdrawn(string(models.TargetShift))
	log.Printf("Application %s withdrawn by applicant %s", application.ID, req.ApplicantID)
	return nil
}

// ConfirmShift lets the accepted applicant confirm they will show up.
func (s *applicationService) ConfirmShift(ctx context.Context, req *dto.ConfirmShiftRequest) (*models.Application, error) {
	// --- Transaction Start (Read-Check-Write pattern) ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("ConfirmShift: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Fetch the Shift (within transaction). Confirmation only needs an
	// accepted winner, so it stays available after the sweep moves the
	// shift from Filled to Completed.
	shift, err := tx.Shifts().GetByID(ctx, req.ShiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s", req.ShiftID))
	}
	if shift.AcceptedApplicantID == nil {
		log.Printf("ConfirmShift: Attempt to confirm shift %s without an accepted applicant (Status: %s)", shift.ID, shift.Status)
		return nil, fmt.Errorf("%w: shift has no accepted applicant", ErrConflict)
	}
	if *shift.AcceptedApplicantID != req.ApplicantID {
		log.Printf("ConfirmShift: Forbidden attempt by %s to confirm shift %s", req.ApplicantID, shift.ID)
		return nil, ErrForbidden
	}

	// 2. Fetch the Application (within transaction)
	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, req.ShiftID, req.ApplicantID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application for shift %s by %s", req.ShiftID, req.ApplicantID))
	}
	if !isValidApplicationTransition(application.Status, models.ApplicationStatusConfirmed) {
		log.Printf("ConfirmShift: Attempt to confirm application %s in status %s", application.ID, application.Status)
		return nil, fmt.Errorf("%w: application is not accepted, current status: %s", ErrConflict, application.Status)
	}

	// 3. Update Application Status (within transaction)
	updatedApp, err := tx.Applications().UpdateStatus(ctx, application.ID, models.ApplicationStatusConfirmed)
	if err != nil {
		log.Printf("ConfirmShift: Error updating application status for %s: %v", application.ID, err)
		return nil, mapRepoError(err, "updating application status")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("ConfirmShift: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing confirmation: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ShiftConfirmed()
	log.Printf("Shift %s confirmed by applicant %s", req.ShiftID, req.ApplicantID)
	return updatedApp, nil
}

// ListApplicationsByShift retrieves applications for a shift, checking
// that the caller owns the shift.
func (s *applicationService) ListApplicationsByShift(ctx context.Context, req *dto.ListApplicationsByTargetRequest) ([]models.Application, error) {
	// 1. Fetch the shift to verify existence and check ownership
	shift, err := s.store.Shifts().GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s for listing applications", req.TargetID))
	}

	// 2. Authorization Check: Only the posting business can list applications
	if shift.BusinessID != req.UserID {
		isAdmin, err := actorIsAdmin(ctx, s.store.Users(), req.UserID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			log.Printf("ListApplicationsByShift: Forbidden attempt by user %s to list applications for shift %s owned by %s", req.UserID, req.TargetID, shift.BusinessID)
			return nil, ErrForbidden
		}
	}

	req.TargetKind = models.TargetShift
	applications, err := s.store.Applications().ListByTarget(ctx, req)
	if err != nil {
		log.Printf("ListApplicationsByShift: Error listing applications for shift %s: %v", req.TargetID, err)
		return nil, mapRepoError(err, fmt.Sprintf("listing applications for shift %s", req.TargetID))
	}
	return applications, nil
}

// ListApplicationsByApplicant retrieves applications for the requesting user.
func (s *applicationService) ListApplicationsByApplicant(ctx context.Context, req *dto.ListApplicationsByApplicantRequest) ([]models.Application, error) {
	applications, err := s.store.Applications().ListByApplicant(ctx, req)
	if err != nil {
		log.Printf("ListApplicationsByApplicant: Error listing applications for applicant %s: %v", req.ApplicantID, err)
		return nil, mapRepoError(err, fmt.Sprintf("listing applications for applicant %s", req.ApplicantID))
	}
	return applications, nil
}

// EvaluateMatch compares the applicant's profile with the shift's stated
// requirements. The result is informational and never blocks a
// submission.
func (s *applicationService) EvaluateMatch(ctx context.Context, req *dto.EvaluateMatchRequest) (*dto.MatchResponse, error) {
	shift, err := s.store.Shifts().GetByID(ctx, req.ShiftID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching shift %s for match evaluation", req.ShiftID))
	}

	applicant, err := s.store.Users().GetByID(ctx, &dto.GetUserByIDRequest{ID: req.ApplicantID})
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching applicant %s for match evaluation", req.ApplicantID))
	}

	result := matching.Evaluate(applicant, shift)

	resp := dto.MatchResponse{
		Checks:         make([]dto.MatchCheckResponse, 0, len(result.Checks)),
		FullyQualified: result.FullyQualified,
	}
	for _, c := range result.Checks {
		resp.Checks = append(resp.Checks, dto.MatchCheckResponse{Label: c.Label, Matched: c.Matched})
	}
	return &resp, nil
}
