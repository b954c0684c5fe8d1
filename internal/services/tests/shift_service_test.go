package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

func newTestShiftService(store storage.Store) services.ShiftService {
	return services.NewShiftService(store, events.NewLogEmitter(), metrics.NewNopRecorder())
}

func TestShiftService_CreateShift(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		req           *dto.CreateShiftRequest
		mockSetup     func(userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository)
		expectedError error
	}{
		{
			name: "Success",
			req: &dto.CreateShiftRequest{
				BusinessID: testBusinessID,
				Role:       "Barista",
				StartsAt:   now.Add(24 * time.Hour),
				EndsAt:     now.Add(32 * time.Hour),
				HourlyRate: 16.5,
				Location:   "Lisbon",
			},
			mockSetup: func(userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Name: "Cafe Central", Role: models.UserRoleBusiness}, nil).Times(1)
				shiftRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
						return &models.Shift{
							ID:           uuid.New(),
							BusinessID:   req.BusinessID,
							BusinessName: req.BusinessName,
							Role:         req.Role,
							StartsAt:     req.StartsAt,
							EndsAt:       req.EndsAt,
							Status:       models.ShiftStatusOpen,
						}, nil
					}).Times(1)
			},
			expectedError: nil,
		},
		{
			name: "Forbidden - job seeker cannot post shifts",
			req: &dto.CreateShiftRequest{
				BusinessID: testApplicantID,
				Role:       "Barista",
				StartsAt:   now.Add(24 * time.Hour),
				EndsAt:     now.Add(32 * time.Hour),
			},
			mockSetup: func(userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testApplicantID, Role: models.UserRoleJobSeeker}, nil).Times(1)
			},
			expectedError: services.ErrForbidden,
		},
		{
			name: "Validation - end before start",
			req: &dto.CreateShiftRequest{
				BusinessID: testBusinessID,
				Role:       "Barista",
				StartsAt:   now.Add(32 * time.Hour),
				EndsAt:     now.Add(24 * time.Hour),
			},
			mockSetup: func(userRepo *mock_storage.MockUserRepository, shiftRepo *mock_storage.MockShiftRepository) {
				userRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
					Return(&models.User{ID: testBusinessID, Role: models.UserRoleBusiness}, nil).Times(1)
			},
			expectedError: services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockUserRepo := mock_storage.NewMockUserRepository(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockStore.EXPECT().Users().Return(mockUserRepo).AnyTimes()
			mockStore.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()

			tt.mockSetup(mockUserRepo, mockShiftRepo)

			service := newTestShiftService(mockStore)
			shift, err := service.CreateShift(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, shift)
			} else {
				require.NoError(t, err)
				require.NotNil(t, shift)
				assert.Equal(t, models.ShiftStatusOpen, shift.Status)
				assert.Equal(t, "Cafe Central", shift.BusinessName)
			}
		})
	}
}

func TestShiftService_CompleteOrExpire(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		mockSetup      func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository)
		expectedStatus models.ShiftStatus
		expectedError  error
	}{
		{
			name: "Filled shift past its end becomes Completed",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				filled.AcceptedApplicantID = &testApplicantID
				filled.EndsAt = now.Add(-time.Hour)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(filled, nil).Times(1)

				completed := *filled
				completed.Status = models.ShiftStatusCompleted
				shiftRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(&completed, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedStatus: models.ShiftStatusCompleted,
		},
		{
			name: "Open shift past its end expires and rejects pending applications",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				open := openShift()
				open.EndsAt = now.Add(-time.Hour)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(open, nil).Times(1)

				appRepo.EXPECT().RejectPendingByTarget(gomock.Any(), models.TargetShift, testShiftID, nil).
					Return([]uuid.UUID{testApplicantID}, nil).Times(1)

				expired := *open
				expired.Status = models.ShiftStatusExpired
				shiftRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(&expired, nil).Times(1)
				tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedStatus: models.ShiftStatusExpired,
		},
		{
			name: "Terminal shift returns unchanged",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				expired := openShift()
				expired.Status = models.ShiftStatusExpired
				expired.EndsAt = now.Add(-time.Hour)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(expired, nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedStatus: models.ShiftStatusExpired,
		},
		{
			name: "Shift not yet due returns unchanged",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				open := openShift()
				open.EndsAt = now.Add(time.Hour)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(open, nil).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
			},
			expectedStatus: models.ShiftStatusOpen,
		},
		{
			name: "NotFound - missing shift",
			mockSetup: func(store *mock_storage.MockStore, tx *mock_storage.MockTx, shiftRepo *mock_storage.MockShiftRepository, appRepo *mock_storage.MockApplicationRepository) {
				store.EXPECT().BeginTx(gomock.Any()).Return(tx, nil).Times(1)
				shiftRepo.EXPECT().GetForUpdate(gomock.Any(), testShiftID).Return(nil, storage.ErrNotFound).Times(1)
				tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
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

			tt.mockSetup(mockStore, mockTx, mockShiftRepo, mockAppRepo)

			service := newTestShiftService(mockStore)
			shift, err := service.CompleteOrExpire(context.Background(), testShiftID, now)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
				assert.Nil(t, shift)
			} else {
				require.NoError(t, err)
				require.NotNil(t, shift)
				assert.Equal(t, tt.expectedStatus, shift.Status)
			}
		})
	}
}

func TestShiftService_DeleteShift(t *testing.T) {
	tests := []struct {
		name          string
		req           *dto.DeleteShiftRequest
		mockSetup     func(shiftRepo *mock_storage.MockShiftRepository)
		expectedError error
	}{
		{
			name: "Success",
			req:  &dto.DeleteShiftRequest{ID: testShiftID, UserID: testBusinessID},
			mockSetup: func(shiftRepo *mock_storage.MockShiftRepository) {
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
				shiftRepo.EXPECT().Delete(gomock.Any(), testShiftID).Return(nil).Times(1)
			},
		},
		{
			name: "Forbidden - not the owner",
			req:  &dto.DeleteShiftRequest{ID: testShiftID, UserID: testApplicantID},
			mockSetup: func(shiftRepo *mock_storage.MockShiftRepository) {
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(openShift(), nil).Times(1)
			},
			expectedError: services.ErrForbidden,
		},
		{
			name: "Conflict - shift already filled",
			req:  &dto.DeleteShiftRequest{ID: testShiftID, UserID: testBusinessID},
			mockSetup: func(shiftRepo *mock_storage.MockShiftRepository) {
				filled := openShift()
				filled.Status = models.ShiftStatusFilled
				shiftRepo.EXPECT().GetByID(gomock.Any(), testShiftID).Return(filled, nil).Times(1)
			},
			expectedError: services.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := mock_storage.NewMockStore(ctrl)
			mockShiftRepo := mock_storage.NewMockShiftRepository(ctrl)
			mockStore.EXPECT().Shifts().Return(mockShiftRepo).AnyTimes()

			tt.mockSetup(mockShiftRepo)

			service := newTestShiftService(mockStore)
			err := service.DeleteShift(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "Expected error %v, got %v", tt.expectedError, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
