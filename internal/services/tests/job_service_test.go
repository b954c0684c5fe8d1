package services_test

import (
	"context"
	"testing"
	"time"

	"shiftdesk/internal/chat"
	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/models"
	"shiftdesk/internal/services"
	"shiftdesk/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Job postings share the application lifecycle with shifts, so these tests
// exercise the job-specific pieces (owner close, no expiry) against the
// in-memory store.

func newJobEnv(t *testing.T) (*lifecycleEnv, services.JobService) {
	t.Helper()
	env := newLifecycleEnv(t)
	jobs := services.NewJobService(env.store, events.NewLogEmitter(), chat.NewNopBootstrapper(), metrics.NewNopRecorder())
	return env, jobs
}

func createOpenJob(t *testing.T, jobs services.JobService, businessID models.User) *models.Job {
	t.Helper()
	job, err := jobs.CreateJob(context.Background(), &dto.CreateJobRequest{
		BusinessID: businessID.ID,
		Title:      "Weekend Barista",
		HourlyRate: 14,
		Location:   "Porto",
	})
	require.NoError(t, err)
	return job
}

func TestJobService_CreateJob(t *testing.T) {
	env, jobs := newJobEnv(t)
	ctx := context.Background()

	job := createOpenJob(t, jobs, *env.business)
	assert.Equal(t, models.JobStatusOpen, job.Status)

	// Job seekers cannot post jobs.
	_, err := jobs.CreateJob(ctx, &dto.CreateJobRequest{
		BusinessID: env.seekerA.ID,
		Title:      "Weekend Barista",
		HourlyRate: 14,
		Location:   "Porto",
	})
	require.ErrorIs(t, err, services.ErrForbidden)
}

func TestJobService_AcceptApplicantFillsJob(t *testing.T) {
	env, jobs := newJobEnv(t)
	ctx := context.Background()
	job := createOpenJob(t, jobs, *env.business)

	_, err := jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	_, err = jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerB.ID,
	})
	require.NoError(t, err)

	filled, err := jobs.AcceptApplicant(ctx, &dto.AcceptJobApplicantRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID, ActorID: env.business.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFilled, filled.Status)
	require.NotNil(t, filled.AcceptedApplicantID)
	assert.Equal(t, env.seekerA.ID, *filled.AcceptedApplicantID)

	// The other pending application was rejected in the same transaction.
	app, err := env.store.Applications().GetByTargetAndApplicant(ctx, models.TargetJob, job.ID, env.seekerB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)

	// A second accept on a filled job fails.
	_, err = jobs.AcceptApplicant(ctx, &dto.AcceptJobApplicantRequest{
		JobID: job.ID, ApplicantID: env.seekerB.ID, ActorID: env.business.ID,
	})
	require.ErrorIs(t, err, services.ErrConflict)
}

func TestJobService_CloseJobRejectsPending(t *testing.T) {
	env, jobs := newJobEnv(t)
	ctx := context.Background()
	job := createOpenJob(t, jobs, *env.business)

	_, err := jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	// Only the owner can close.
	_, err = jobs.CloseJob(ctx, job.ID, env.seekerA.ID)
	require.ErrorIs(t, err, services.ErrForbidden)

	closed, err := jobs.CloseJob(ctx, job.ID, env.business.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, closed.Status)

	app, err := env.store.Applications().GetByTargetAndApplicant(ctx, models.TargetJob, job.ID, env.seekerA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)

	// Closed is terminal.
	_, err = jobs.CloseJob(ctx, job.ID, env.business.ID)
	require.ErrorIs(t, err, services.ErrConflict)

	// No new applications once closed.
	_, err = jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerB.ID,
	})
	require.ErrorIs(t, err, services.ErrConflict)
}

func TestJobService_AdminMayCloseAndAccept(t *testing.T) {
	env, jobs := newJobEnv(t)
	ctx := context.Background()

	admin, err := env.store.Users().Create(ctx, &dto.CreateUserRequest{
		Name: "Ops", Email: "ops@shiftdesk.example", Password: "password123",
		Role: models.UserRoleAdmin,
	})
	require.NoError(t, err)

	job := createOpenJob(t, jobs, *env.business)
	_, err = jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	// Admins act with the same authority as the posting business.
	filled, err := jobs.AcceptApplicant(ctx, &dto.AcceptJobApplicantRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID, ActorID: admin.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFilled, filled.Status)

	closed, err := jobs.CloseJob(ctx, job.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, closed.Status)
}

func TestJobService_ShiftAndJobApplicationsAreIndependent(t *testing.T) {
	env, jobs := newJobEnv(t)
	ctx := context.Background()
	job := createOpenJob(t, jobs, *env.business)
	shift := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	// The same user may hold one application per posting, across kinds.
	_, err := jobs.SubmitApplication(ctx, &dto.SubmitJobApplicationRequest{
		JobID: job.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	_, err = env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	apps, err := env.store.Applications().ListByApplicant(ctx, &dto.ListApplicationsByApplicantRequest{
		ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}
