package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shiftdesk/internal/chat"
	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	"shiftdesk/internal/models"
	"shiftdesk/internal/services"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/storage/memory"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the full lifecycle against the in-memory store, so the
// transaction semantics under test are real rather than mocked.

type lifecycleEnv struct {
	store        *memory.Store
	shifts       services.ShiftService
	applications services.ApplicationService
	business     *models.User
	seekerA      *models.User
	seekerB      *models.User
}

func newLifecycleEnv(t *testing.T) *lifecycleEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	business, err := store.Users().Create(ctx, &dto.CreateUserRequest{
		Name: "Cafe Central", Email: "owner@cafecentral.example", Password: "password123",
		Role: models.UserRoleBusiness,
	})
	require.NoError(t, err)

	seekerA, err := store.Users().Create(ctx, &dto.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
		Role: models.UserRoleJobSeeker, WorkRole: "Barista", Skills: []string{"Latte Art"},
	})
	require.NoError(t, err)

	seekerB, err := store.Users().Create(ctx, &dto.CreateUserRequest{
		Name: "Bruno", Email: "bruno@example.com", Password: "password123",
		Role: models.UserRoleJobSeeker, WorkRole: "Barista",
	})
	require.NoError(t, err)

	emitter := events.NewLogEmitter()
	recorder := metrics.NewNopRecorder()
	return &lifecycleEnv{
		store:        store,
		shifts:       services.NewShiftService(store, emitter, recorder),
		applications: services.NewApplicationService(store, emitter, chat.NewNopBootstrapper(), recorder),
		business:     business,
		seekerA:      seekerA,
		seekerB:      seekerB,
	}
}

func (e *lifecycleEnv) createOpenShift(t *testing.T, startsIn, duration time.Duration) *models.Shift {
	t.Helper()
	shift, err := e.shifts.CreateShift(context.Background(), &dto.CreateShiftRequest{
		BusinessID: e.business.ID,
		Role:       "Barista",
		StartsAt:   time.Now().Add(startsIn),
		EndsAt:     time.Now().Add(startsIn + duration),
		HourlyRate: 15,
		Location:   "Lisbon",
	})
	require.NoError(t, err)
	return shift
}

func TestLifecycle_AcceptIsAtomicUnderConcurrency(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()
	shift := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	_, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	_, err = env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerB.ID,
	})
	require.NoError(t, err)

	// Two concurrent accepts for different applicants on the same shift.
	// Exactly one must win; the loser must see the shift already filled.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	applicants := []uuid.UUID{env.seekerA.ID, env.seekerB.ID}
	for i := range applicants {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.applications.AcceptApplicant(ctx, &dto.AcceptApplicantRequest{
				ShiftID:     shift.ID,
				ApplicantID: applicants[i],
				ActorID:     env.business.ID,
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, services.ErrConflict), "loser should see a conflict, got %v", err)
		}
	}
	require.Equal(t, 1, winners, "exactly one accept must succeed")

	updated, err := env.shifts.GetShiftByID(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusFilled, updated.Status)
	require.NotNil(t, updated.AcceptedApplicantID)

	// The loser's application must have been cascade-rejected.
	accepted, rejected := 0, 0
	for _, applicantID := range applicants {
		app, err := env.store.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, shift.ID, applicantID)
		require.NoError(t, err)
		switch app.Status {
		case models.ApplicationStatusAccepted:
			accepted++
			assert.Equal(t, applicantID, *updated.AcceptedApplicantID)
		case models.ApplicationStatusRejected:
			rejected++
		default:
			t.Fatalf("unexpected application status %s", app.Status)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)
}

func TestLifecycle_SubmitRacingAcceptNeverLeavesPending(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()
	shift := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	_, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	// A submit racing the accept must either land before it, and be
	// cascade-rejected with the other losers, or serialize behind the
	// shift lock and fail the open check. It must never leave a Pending
	// application on the filled shift.
	var wg sync.WaitGroup
	var submitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, submitErr = env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
			ShiftID: shift.ID, ApplicantID: env.seekerB.ID,
		})
	}()

	_, err = env.applications.AcceptApplicant(ctx, &dto.AcceptApplicantRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID, ActorID: env.business.ID,
	})
	require.NoError(t, err)
	wg.Wait()

	updated, err := env.shifts.GetShiftByID(ctx, shift.ID)
	require.NoError(t, err)
	require.Equal(t, models.ShiftStatusFilled, updated.Status)

	if submitErr != nil {
		assert.True(t, errors.Is(submitErr, services.ErrConflict), "late submit should see a conflict, got %v", submitErr)
	}
	app, err := env.store.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, shift.ID, env.seekerB.ID)
	if err != nil {
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.Error(t, submitErr, "submit reported success but no application exists")
	} else {
		assert.NotEqual(t, models.ApplicationStatusPending, app.Status,
			"submit racing accept left a Pending application on a Filled shift")
	}
}

func TestLifecycle_WithdrawThenReapply(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()
	shift := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	_, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	// A second submit while the first is pending is a duplicate.
	_, err = env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.ErrorIs(t, err, services.ErrDuplicateApplication)

	err = env.applications.WithdrawApplication(ctx, &dto.WithdrawApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	// Withdrawal removes the application, so applying again works.
	app, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
}

func TestLifecycle_ConfirmAfterAccept(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()
	shift := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	_, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	_, err = env.applications.AcceptApplicant(ctx, &dto.AcceptApplicantRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID, ActorID: env.business.ID,
	})
	require.NoError(t, err)

	// An accepted application can no longer be withdrawn.
	err = env.applications.WithdrawApplication(ctx, &dto.WithdrawApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.ErrorIs(t, err, services.ErrConflict)

	// Only the accepted applicant may confirm.
	_, err = env.applications.ConfirmShift(ctx, &dto.ConfirmShiftRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerB.ID,
	})
	require.ErrorIs(t, err, services.ErrForbidden)

	app, err := env.applications.ConfirmShift(ctx, &dto.ConfirmShiftRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusConfirmed, app.Status)
}

func TestLifecycle_SweepExpiresAndCompletes(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	// One open shift with a pending application, one filled shift, both
	// already past their end time.
	expiring := env.createOpenShift(t, -4*time.Hour, 2*time.Hour)
	_, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: expiring.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)

	completing := env.createOpenShift(t, -4*time.Hour, 2*time.Hour)
	_, err = env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: completing.ID, ApplicantID: env.seekerB.ID,
	})
	require.NoError(t, err)
	_, err = env.applications.AcceptApplicant(ctx, &dto.AcceptApplicantRequest{
		ShiftID: completing.ID, ApplicantID: env.seekerB.ID, ActorID: env.business.ID,
	})
	require.NoError(t, err)

	// One future shift that must be left alone.
	future := env.createOpenShift(t, 24*time.Hour, 8*time.Hour)

	processed, err := env.shifts.SweepDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	expired, err := env.shifts.GetShiftByID(ctx, expiring.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusExpired, expired.Status)

	app, err := env.store.Applications().GetByTargetAndApplicant(ctx, models.TargetShift, expiring.ID, env.seekerA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)

	completed, err := env.shifts.GetShiftByID(ctx, completing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusCompleted, completed.Status)

	untouched, err := env.shifts.GetShiftByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusOpen, untouched.Status)

	// The accepted worker can still confirm after the sweep completed the
	// shift.
	confirmed, err := env.applications.ConfirmShift(ctx, &dto.ConfirmShiftRequest{
		ShiftID: completing.ID, ApplicantID: env.seekerB.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusConfirmed, confirmed.Status)

	// A second sweep finds nothing left to do.
	processed, err = env.shifts.SweepDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestLifecycle_EvaluateMatchNeverBlocksSubmit(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	shift, err := env.shifts.CreateShift(ctx, &dto.CreateShiftRequest{
		BusinessID:   env.business.ID,
		Role:         "Barista",
		StartsAt:     time.Now().Add(24 * time.Hour),
		EndsAt:       time.Now().Add(32 * time.Hour),
		HourlyRate:   15,
		Location:     "Lisbon",
		Requirements: []string{"Latte Art", "POS Systems"},
	})
	require.NoError(t, err)

	// seekerA has the role and one of the two required skills.
	result, err := env.applications.EvaluateMatch(ctx, &dto.EvaluateMatchRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	require.Len(t, result.Checks, 3)
	assert.Equal(t, "role", result.Checks[0].Label)
	assert.True(t, result.Checks[0].Matched)
	assert.True(t, result.Checks[1].Matched)
	assert.False(t, result.Checks[2].Matched)
	assert.False(t, result.FullyQualified)

	// A partial match must not stop the application from going through.
	app, err := env.applications.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		ShiftID: shift.ID, ApplicantID: env.seekerA.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
}
