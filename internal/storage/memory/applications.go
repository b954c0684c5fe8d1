package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
)

type ApplicationRepo struct {
	store *Store
	inTx  bool
}

var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func (r *ApplicationRepo) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*models.Application, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	for _, a := range r.store.applications {
		if a.TargetKind == req.TargetKind && a.TargetID == req.TargetID && a.ApplicantID == req.ApplicantID {
			return nil, fmt.Errorf("application for %s %s by %s already exists: %w",
				req.TargetKind, req.TargetID, req.ApplicantID, storage.ErrDuplicate)
		}
	}

	now := time.Now()
	app := models.Application{
		ID:          uuid.New(),
		TargetKind:  req.TargetKind,
		TargetID:    req.TargetID,
		ApplicantID: req.ApplicantID,
		Message:     req.Message,
		Status:      models.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.store.applications[app.ID] = app
	return &app, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	app, ok := r.store.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &app, nil
}

func (r *ApplicationRepo) GetByTargetAndApplicant(ctx context.Context, kind models.TargetKind, targetID, applicantID uuid.UUID) (*models.Application, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	for _, a := range r.store.applications {
		if a.TargetKind == kind && a.TargetID == targetID && a.ApplicantID == applicantID {
			return &a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *ApplicationRepo) ListByTarget(ctx context.Context, req *dto.ListApplicationsByTargetRequest) ([]models.Application, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	apps := []models.Application{}
	for _, a := range r.store.applications {
		if a.TargetKind == req.TargetKind && a.TargetID == req.TargetID {
			apps = append(apps, a)
		}
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	return paginate(apps, req.Offset, req.Limit), nil
}

func (r *ApplicationRepo) ListByApplicant(ctx context.Context, req *dto.ListApplicationsByApplicantRequest) ([]models.Application, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	apps := []models.Application{}
	for _, a := range r.store.applications {
		if a.ApplicantID == req.ApplicantID {
			apps = append(apps, a)
		}
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	return paginate(apps, req.Offset, req.Limit), nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	app, ok := r.store.applications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	app.Status = status
	app.UpdatedAt = time.Now()

	r.store.applications[app.ID] = app
	return &app, nil
}

func (r *ApplicationRepo) RejectPendingByTarget(ctx context.Context, kind models.TargetKind, targetID uuid.UUID, exclude *uuid.UUID) ([]uuid.UUID, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	applicantIDs := []uuid.UUID{}
	now := time.Now()
	for id, a := range r.store.applications {
		if a.TargetKind != kind || a.TargetID != targetID || a.Status != models.ApplicationStatusPending {
			continue
		}
		if exclude != nil && id == *exclude {
			continue
		}
		a.Status = models.ApplicationStatusRejected
		a.UpdatedAt = now
		r.store.applications[id] = a
		applicantIDs = append(applicantIDs, a.ApplicantID)
	}

	return applicantIDs, nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	if _, ok := r.store.applications[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.store.applications, id)
	return nil
}
