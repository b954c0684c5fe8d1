package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftdesk/internal/chat"
	"shiftdesk/internal/events"
	"shiftdesk/internal/metrics"
	mock_storage "shiftdesk/internal/mocks"
	"shiftdesk/internal/models"
	"shiftdesk/internal/services"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBusinessID  = uuid.New()
	testApplicantID = uuid.New()
	testShiftID     = uuid.New()
)

func newTestApplicationService(store storage.Store) services.ApplicationService {
	return services.NewApplicationService(store, events.NewLogEmitter(), chat.NewNopBootstrapper(), metrics.NewNopRecorder())
}

func openShift() *models.Shift {
	return &models.Shift{
		ID:         testShiftID,
		BusinessID: testBusinessID,
		Role:       "Barista",
		StartsAt:   time.Now().Add(24 * time.Hour),
		EndsAt:     time.Now().Add(32 * time.Hour),
		Status:     models.ShiftStatusOpen,
	}
}

func pendingApplication() *models.Application {
	return &models.Application{
		ID:          uuid.New(),
		TargetKind:  models.TargetShift,
		TargetID:    testShiftID,
		ApplicantID: testApplicantID,
		Status:      models.ApplicationStatusPending,
	}
}

func TestApplicationService_SubmitApplication(t *testing.T) {
	tests := []struct {
		name          string
		req           *dto.SubmitApplicationRequest
		mockSetup     func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedError error
	}{
		{
			name: "Success",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, Message: "I can cover this"},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(nil, storage.ErrNotFound).Times(1)
				appRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(pendingApplication(), nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
			},
			expectedError: nil,
		},
		{
			name: "Duplicate - already applied",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(pendingApplication(), nil).Times(1)
			},
			expectedError: services.ErrDuplicateApplication,
		},
		{
			name: "Duplicate - lost race on unique index",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(nil, storage.ErrNotFound).Times(1)
				appRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, storage.ErrDuplicate).Times(1)
			},
			expectedError: services.ErrDuplicateApplication,
		},
		{
			name: "Conflict - shift not open",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(filled, nil).Times(1)
			},
			expectedError: services.ErrConflict,
		},
		{
			name: "Forbidden - business applying to own shift",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testBusinessID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
			},
			expectedError: services.ErrForbidden,
		},
		{
			name: "NotFound - shift does not exist",
			req:  &dto.SubmitApplicationRequest{ShiftID: testShiftID, ApplicantID: testApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(nil, storage.ErrNotFound).Times(1)
			},
			expectedError: services.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockTx := mock_storage.NewMockTx(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockAppRepo := mock_storage.NewMockApplicationRepository(ctrl)
			mockTx.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()
			mockTx.EXPECT().Applications().Return(mockAppRepo).AnyTimes()
			mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

			tt.mockSetup(mockStore, mockTx, mockShiftRepo, mockAppRepo)

			service := newTestApplicationService(mockStore)
			app, err := service.SubmitApplication(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, app)
			} else {
				require.NoError(t, err)
				require.NotNil(t, app)
				assert.Equal(t, models.ApplicationStatusPending, app.Status)
				assert.Equal(t, testApplicantID, app.ApplicantID)
			}
		})
	}
}

func TestApplicationService_AcceptApplicant(t *testing.T) {
	otherApplicantID := uuid.New()

	tests := []struct {
		name          string
		req           *dto.AcceptApplicantRequest
		mockSetup     func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedError error
	}{
		{
			name: "Success - winner accepted, others rejected",
			req:  &dto.AcceptApplicantRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, ActorID: testBusinessID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)

				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				app := pendingApplication()
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(app, nil).Times(1)
				accepted := *app
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().UpdateStatus(gomock.Any(), app.ID, models.ApplicationStatusAccepted).
					Return(&accepted, nil).Times(1)

				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				filled.AcceptedApplicantID = &app.ApplicantID
				shiftRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(filled, nil).Times(1)

				appRepo.EXPECT().RejectPendingByTarget(gomock.Any(), models.TargetShift, testShiftID, gomock.Any()).
					Return([]uuid.UUID{otherApplicantID}, nil).Times(1)

				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: nil,
		},
		{
			name: "Conflict - shift already filled",
			req:  &dto.AcceptApplicantRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, ActorID: testBusinessID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)

				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(filled, nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: services.ErrConflict,
		},
		{
			name: "Forbidden - actor does not own the shift",
			req:  &dto.AcceptApplicantRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, ActorID: otherApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: otherApplicantID, Role: models.UserRoleJobSeeker}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)

				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: services.ErrForbidden,
		},
		{
			name: "Admin may accept on behalf of the business",
			req:  &dto.AcceptApplicantRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, ActorID: otherApplicantID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: otherApplicantID, Role: models.UserRoleAdmin}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)

				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				app := pendingApplication()
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(app, nil).Times(1)
				accepted := *app
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().UpdateStatus(gomock.Any(), app.ID, models.ApplicationStatusAccepted).
					Return(&accepted, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				filled.AcceptedApplicantID = &app.ApplicantID
				shiftRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(filled, nil).Times(1)
				appRepo.EXPECT().RejectPendingByTarget(gomock.Any(), models.TargetShift, testShiftID, gomock.Any()).
					Return([]uuid.UUID{}, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: nil,
		},
		{
			name: "Conflict - application already rejected",
			req:  &dto.AcceptApplicantRequest{ShiftID: testShiftID, ApplicantID: testApplicantID, ActorID: testBusinessID},
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)

				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				rejected := pendingApplication()
				rejected.Status = models.ApplicationStatusRejected
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(rejected, nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: services.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockTx := mock_storage.NewMockTx(ctrl)
			mockUserRepo := mock_storage.NewMockUserRepository(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockAppRepo := mock_storage.NewMockApplicationRepository(ctrl)
			mockStore.EXPECT().Users().Return(mockUserRepo).AnyTimes()
			mockTx.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()
			mockTx.EXPECT().Applications().Return(mockAppRepo).AnyTimes()

			tt.mockSetup(mockStore, mockTx, mockUserRepo, mockShiftRepo, mockAppRepo)

			service := newTestApplicationService(mockStore)
			shift, err := service.AcceptApplicant(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, shift)
			} else {
				require.NoError(t, err)
				require.NotNil(t, shift)
				assert.Equal(t, models.ShiftStatusFilled, shift.Status)
				require.NotNil(t, shift.AcceptedApplicantID)
				assert.Equal(t, testApplicantID, *shift.AcceptedApplicantID)
			}
		})
	}
}

func TestApplicationService_RejectApplicant(t *testing.T) {
	tests := []struct {
		name          string
		actorID       uuid.UUID
		mockSetup     func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedError error
	}{
		{
			name:    "Success - pending application rejected under the shift lock",
			actorID: testBusinessID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)

				app := pendingApplication()
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(app, nil).Times(1)
				rejected := *app
				rejected.Status = models.ApplicationStatusRejected
				appRepo.EXPECT().UpdateStatus(gomock.Any(), app.ID, models.ApplicationStatusRejected).
					Return(&rejected, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
			},
			expectedError: nil,
		},
		{
			name:    "Conflict - application was accepted by a racing actor",
			actorID: testBusinessID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(filled, nil).Times(1)

				accepted := pendingApplication()
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(accepted, nil).Times(1)
			},
			expectedError: services.ErrConflict,
		},
		{
			name:    "Forbidden - actor does not own the shift",
			actorID: testApplicantID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testApplicantID, Role: models.UserRoleJobSeeker}, nil).Times(1)
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
			},
			expectedError: services.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockTx := mock_storage.NewMockTx(ctrl)
			mockUserRepo := mock_storage.NewMockUserRepository(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockAppRepo := mock_storage.NewMockApplicationRepository(ctrl)
			mockStore.EXPECT().Users().Return(mockUserRepo).AnyTimes()
			mockTx.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()
			mockTx.EXPECT().Applications().Return(mockAppRepo).AnyTimes()
			mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

			tt.mockSetup(mockStore, mockTx, mockUserRepo, mockShiftRepo, mockAppRepo)

			service := newTestApplicationService(mockStore)
			app, err := service.RejectApplicant(context.Background(), &dto.RejectApplicantRequest{
				ShiftID:     testShiftID,
				ApplicantID: testApplicantID,
				ActorID:     tt.actorID,
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, app)
			} else {
				require.NoError(t, err)
				require.NotNil(t, app)
				assert.Equal(t, models.ApplicationStatusRejected, app.Status)
			}
		})
	}
}

func TestApplicationService_WithdrawApplication(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedError error
	}{
		{
			name: "Success - pending application is deleted",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				app := pendingApplication()
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(app, nil).Times(1)
				appRepo.EXPECT().Delete(gomock.Any(), app.ID).Return(nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
			},
			expectedError: nil,
		},
		{
			name: "Success - shift already deleted",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(nil, storage.ErrNotFound).Times(1)
				app := pendingApplication()
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(app, nil).Times(1)
				appRepo.EXPECT().Delete(gomock.Any(), app.ID).Return(nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
			},
			expectedError: nil,
		},
		{
			name: "Conflict - cannot withdraw an accepted application",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				accepted := pendingApplication()
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(accepted, nil).Times(1)
			},
			expectedError: services.ErrConflict,
		},
		{
			name: "NotFound - no application to withdraw",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(nil, storage.ErrNotFound).Times(1)
			},
			expectedError: services.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockTx := mock_storage.NewMockTx(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockAppRepo := mock_storage.NewMockApplicationRepository(ctrl)
			mockTx.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()
			mockTx.EXPECT().Applications().Return(mockAppRepo).AnyTimes()
			mockTx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

			tt.mockSetup(mockStore, mockTx, mockShiftRepo, mockAppRepo)

			service := newTestApplicationService(mockStore)
			err := service.WithdrawApplication(context.Background(), &dto.WithdrawApplicationRequest{
				ShiftID:     testShiftID,
				ApplicantID: testApplicantID,
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplicationService_ConfirmShift(t *testing.T) {
	tests := []struct {
		name          string
		applicantID   uuid.UUID
		mockSetup     func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedError error
	}{
		{
			name:        "Success - accepted applicant confirms",
			applicantID: testApplicantID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				filled.AcceptedApplicantID = &testApplicantID
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(filled, nil).Times(1)

				accepted := pendingApplication()
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(accepted, nil).Times(1)
				confirmed := *accepted
				confirmed.Status = models.ApplicationStatusConfirmed
				appRepo.EXPECT().UpdateStatus(gomock.Any(), accepted.ID, models.ApplicationStatusConfirmed).
					Return(&confirmed, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: nil,
		},
		{
			name:        "Forbidden - confirm by a different applicant",
			applicantID: testBusinessID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				filled.AcceptedApplicantID = &testApplicantID
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(filled, nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: services.ErrForbidden,
		},
		{
			name:        "Success - confirm still works after the sweep completed the shift",
			applicantID: testApplicantID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				completed := openShift()
				completed.Status = models.ShiftStatusCompleted
				completed.AcceptedApplicantID = &testApplicantID
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(completed, nil).Times(1)

				accepted := pendingApplication()
				accepted.Status = models.ApplicationStatusAccepted
				appRepo.EXPECT().GetByTargetAndApplicant(gomock.Any(), models.TargetShift, testShiftID, testApplicantID).
					Return(accepted, nil).Times(1)
				confirmed := *accepted
				confirmed.Status = models.ApplicationStatusConfirmed
				appRepo.EXPECT().UpdateStatus(gomock.Any(), accepted.ID, models.ApplicationStatusConfirmed).
					Return(&confirmed, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: nil,
		},
		{
			name:        "Conflict - no accepted applicant on the shift",
			applicantID: testApplicantID,
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedError: services.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockTx := mock_storage.NewMockTx(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockAppRepo := mock_storage.NewMockApplicationRepository(ctrl)
			mockTx.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()
			mockTx.EXPECT().Applications().Return(mockAppRepo).AnyTimes()

			tt.mockSetup(mockStore, mockTx, mockShiftRepo, mockAppRepo)

			service := newTestApplicationService(mockStore)
			app, err := service.ConfirmShift(context.Background(), &dto.ConfirmShiftRequest{
				ShiftID:     testShiftID,
				ApplicantID: tt.applicantID,
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, app)
			} else {
				require.NoError(t, err)
				require.NotNil(t, app)
				assert.Equal(t, models.ApplicationStatusConfirmed, app.Status)
			}
		})
	}
}
