package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shiftdesk/internal/chat"
	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

type jobService struct {
	store    storage.Store
	emitter  events.Emitter
	chat     chat.Bootstrapper
	recorder metrics.Recorder
}

// NewJobService creates a new instance of JobService.
func NewJobService(store storage.Store, emitter events.Emitter, chatBootstrap chat.Bootstrapper, recorder metrics.Recorder) JobService {
	return &jobService{
		store:    store,
		emitter:  emitter,
		chat:     chatBootstrap,
		recorder: recorder,
	}
}

func (s *jobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	business, err := s.store.Users().GetByID(ctx, &dto.GetUserByIDRequest{ID: req.BusinessID})
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching business %s", req.BusinessID))
	}
	if business.Role != models.UserRoleBusiness {
		log.Printf("CreateJob: User %s with role %s attempted to post a job", business.ID, business.Role)
		return nil, fmt.Errorf("%w: only business accounts can post jobs", ErrForbidden)
	}

	job, err := s.store.Jobs().Create(ctx, req)
	if err != nil {
		log.Printf("CreateJob: Error creating job in repo: %v", err)
		return nil, mapRepoError(err, "creating job")
	}
	return job, nil
}

func (s *jobService) GetJobByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s", id))
	}
	return job, nil
}

func (s *jobService) ListOpenJobs(ctx context.Context, req *dto.ListOpenJobsRequest) ([]models.Job, error) {
	jobs, err := s.store.Jobs().ListOpen(ctx, req)
	if err != nil {
		log.Printf("ListOpenJobs: Error listing open jobs: %v", err)
		return nil, mapRepoError(err, "listing open jobs")
	}
	return jobs, nil
}

func (s *jobService) DeleteJob(ctx context.Context, req *dto.DeleteJobRequest) error {
	job, err := s.store.Jobs().GetByID(ctx, req.ID)
	if err != nil {
		return mapRepoError(err, fmt.Sprintf("fetching job %s for deletion", req.ID))
	}

	if job.BusinessID != req.UserID {
		log.Printf("DeleteJob: Forbidden attempt by user %s on job %s owned by %s", req.UserID, job.ID, job.BusinessID)
		return ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		log.Printf("DeleteJob: Attempt to delete non-open job %s (Status: %s)", job.ID, job.Status)
		return fmt.Errorf("%w: only open jobs can be deleted", ErrConflict)
	}

	if err := s.store.Jobs().Delete(ctx, req.ID); err != nil {
		log.Printf("DeleteJob: Error deleting job %s: %v", req.ID, err)
		return mapRepoError(err, fmt.Sprintf("deleting job %s", req.ID))
	}
	return nil
}

// CloseJob retires a job posting. Pending applications are rejected in
// the same transaction.
func (s *jobService) CloseJob(ctx context.Context, jobID, actorID uuid.UUID) (*models.Job, error) {
	// Admins may close on behalf of any business, same as the shift side.
	isAdmin, err := actorIsAdmin(ctx, s.store.Users(), actorID)
	if err != nil {
		return nil, err
	}

	// --- Transaction Start ---
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("CloseJob: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := tx.Jobs().GetForUpdate(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s within transaction", jobID))
	}

	if job.BusinessID != actorID && !isAdmin {
		log.Printf("CloseJob: Forbidden attempt by user %s on job %s owned by %s", actorID, job.ID, job.BusinessID)
		return nil, ErrForbidden
	}
	if !isValidJobTransition(job.Status, models.JobStatusClosed) {
		log.Printf("CloseJob: Attempt to close job %s in status %s", job.ID, job.Status)
		return nil, fmt.Errorf("%w: job cannot be closed from status %s", ErrConflict, job.Status)
	}

	rejected, err := tx.Applications().RejectPendingByTarget(ctx, models.TargetJob, job.ID, nil)
	if err != nil {
		log.Printf("CloseJob: Error rejecting pending applications for job %s: %v", job.ID, err)
		return nil, mapRepoError(err, "rejecting pending applications")
	}

	updatedJob, err := tx.Jobs().UpdateStatus(ctx, &dto.UpdateJobStatusRequest{ID: job.ID, Status: models.JobStatusClosed})
	if err != nil {
		log.Printf("CloseJob: Error updating job %s: %v", job.ID, err)
		return nil, mapRepoError(err, "updating job status")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("CloseJob: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing job close: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationsRejected(string(models.TargetJob), len(rejected))
	for _, applicantID := range rejected {
		id := applicantID
		s.emitter.Emit(ctx, events.Event{
			Type:        events.EventApplicationRejected,
			RecipientID: id,
			TargetKind:  models.TargetJob,
			TargetID:    job.ID,
			ApplicantID: &id,
		})
	}

	log.Printf("Job %s closed by user %s (%d pending applications rejected)", job.ID, actorID, len(rejected))
	return updatedJob, nil
}

// SubmitApplication creates a new Pending application for an open job.
// The job row stays locked until the application is committed, so a
// submit cannot land behind a concurrent accept or close and leave a
// Pending application on a closed job.
func (s *jobService) SubmitApplication(ctx context.Context, req *dto.SubmitJobApplicationRequest) (*models.Application, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("SubmitApplication: Error beginning transaction: %v", err)
		return nil, fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := tx.Jobs().GetForUpdate(ctx, req.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s for application", req.JobID))
	}

	if job.Status != models.JobStatusOpen {
		log.Printf("SubmitApplication: Attempt to apply to non-open job %s (Status: %s)", req.JobID, job.Status)
		return nil, fmt.Errorf("%w: job is not open for applications", ErrConflict)
	}
	if job.BusinessID == req.ApplicantID {
		return nil, fmt.Errorf("%w: business cannot apply to its own job", ErrForbidden)
	}

	_, err = tx.Applications().GetByTargetAndApplicant(ctx, models.TargetJob, req.JobID, req.ApplicantID)
	if err == nil {
		log.Printf("SubmitApplication: Applicant %s already applied to job %s", req.ApplicantID, req.JobID)
		return nil, ErrDuplicateApplication
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, mapRepoError(err, fmt.Sprintf("checking existing application for job %s", req.JobID))
	}

	createReq := dto.CreateApplicationRequest{
		TargetKind:  models.TargetJob,
		TargetID:    req.JobID,
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

	if err := tx.Commit(ctx); err != nil {
		log.Printf("SubmitApplication: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing application: %w", err)
	}

	s.recorder.ApplicationSubmitted(string(models.TargetJob))
	s.emitter.Emit(ctx, events.Event{
		Type:        events.EventNewApplicant,
		RecipientID: job.BusinessID,
		TargetKind:  models.TargetJob,
		TargetID:    job.ID,
		ApplicantID: &application.ApplicantID,
	})

	return application, nil
}

// WithdrawApplication removes a pending job application.
func (s *jobService) WithdrawApplication(ctx context.Context, req *dto.WithdrawJobApplicationRequest) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		log.Printf("WithdrawApplication: Error beginning transaction: %v", err)
		return fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the job so the withdrawal serializes with a racing accept. A
	// deleted job cannot be accepting, so NotFound is tolerated.
	if _, err := tx.Jobs().GetForUpdate(ctx, req.JobID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return mapRepoError(err, fmt.Sprintf("locking job %s for withdrawal", req.JobID))
	}

	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetJob, req.JobID, req.ApplicantID)
	if err != nil {
		return mapRepoError(err, fmt.Sprintf("fetching application for job %s by %s", req.JobID, req.ApplicantID))
	}
	if application.Status != models.ApplicationStatusPending {
		log.Printf("WithdrawApplication: Attempt to withdraw non-pending application %s (Status: %s)", application.ID, application.Status)
		return fmt.Errorf("%w: application is not pending, current status: %s", ErrConflict, application.Status)
	}

	if err := tx.Applications().Delete(ctx, application.ID); err != nil {
		log.Printf("WithdrawApplication: Error deleting application %s: %v", application.ID, err)
		return mapRepoError(err, "deleting application")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("WithdrawApplication: Error committing transaction: %v", err)
		return fmt.Errorf("internal error committing withdrawal: %w", err)
	}

	s.recorder.ApplicationWithdrawn(string(models.TargetJob))
	log.Printf("Application %s withdrawn by applicant %s", application.ID, req.ApplicantID)
	return nil
}

// AcceptApplicant fills the job with the chosen applicant under the same
// single-winner rules as a shift accept.
func (s *jobService) AcceptApplicant(ctx context.Context, req *dto.AcceptJobApplicantRequest) (*models.Job, error) {
	// Resolve the actor's role up front; admins may accept on behalf of
	// any business.
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
	defer tx.Rollback(ctx)

	job, err := tx.Jobs().GetForUpdate(ctx, req.JobID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching job %s within transaction", req.JobID))
	}

	if job.BusinessID != req.ActorID && !isAdmin {
		log.Printf("AcceptApplicant: Forbidden attempt by user %s on job %s owned by %s", req.ActorID, job.ID, job.BusinessID)
		return nil, ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		log.Printf("AcceptApplicant: Attempt to accept applicant for non-open job %s (Status: %s)", job.ID, job.Status)
		return nil, fmt.Errorf("%w: job is no longer open", ErrConflict)
	}

	application, err := tx.Applications().GetByTargetAndApplicant(ctx, models.TargetJob, req.JobID, req.ApplicantID)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("fetching application for job %s by %s", req.JobID, req.ApplicantID))
	}
	if application.Status != models.ApplicationStatusPending {
		log.Printf("AcceptApplicant: Attempt to accept non-pending application %s (Status: %s)", application.ID, application.Status)
		return nil, fmt.Errorf("%w: application is not pending", ErrConflict)
	}

	if _, err := tx.Applications().UpdateStatus(ctx, application.ID, models.ApplicationStatusAccepted); err != nil {
		log.Printf("AcceptApplicant: Error updating application status for %s: %v", application.ID, err)
		return nil, mapRepoError(err, "updating application status")
	}

	updatedJob, err := tx.Jobs().UpdateStatus(ctx, &dto.UpdateJobStatusRequest{
		ID:                  job.ID,
		Status:              models.JobStatusFilled,
		AcceptedApplicantID: &application.ApplicantID,
	})
	if err != nil {
		log.Printf("AcceptApplicant: Error updating job %s: %v", job.ID, err)
		return nil, mapRepoError(err, "updating job status")
	}

	rejectedApplicants, err := tx.Applications().RejectPendingByTarget(ctx, models.TargetJob, job.ID, &application.ID)
	if err != nil {
		log.Printf("AcceptApplicant: Error rejecting other applications for job %s: %v", job.ID, err)
		return nil, mapRepoError(err, "rejecting other applications")
	}

	// --- Commit Transaction ---
	if err := tx.Commit(ctx); err != nil {
		log.Printf("AcceptApplicant: Error committing transaction: %v", err)
		return nil, fmt.Errorf("internal error committing changes: %w", err)
	}
	// --- End Transaction ---

	s.recorder.ApplicationAccepted(string(models.TargetJob))
	s.recorder.ApplicationsRejected(string(models.TargetJob), len(rejectedApplicants))

	s.emitter.Emit(ctx, events.Event{
		Type:        events.EventApplicationAccepted,
		RecipientID: application.ApplicantID,
		TargetKind:  models.TargetJob,
		TargetID:    job.ID,
		ApplicantID: &application.ApplicantID,
	})
	for _, applicantID := range rejectedApplicants {
		id := applicantID
		s.emitter.Emit(ctx, events.Event{
			Type:        events.EventApplicationRejected,
			RecipientID: id,
			TargetKind:  models.TargetJob,
			TargetID:    job.ID,
			ApplicantID: &id,
		})
	}
	s.chat.OpenConversation(ctx, models.TargetJob, job.ID, job.BusinessID, application.ApplicantID)

	log.Printf("Job %s filled with applicant %s, %d other applications rejected", job.ID, application.ApplicantID, len(rejectedApplicants))
	return updatedJob, nil
}
