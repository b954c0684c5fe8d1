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

type JobRepo struct {
	store *Store
	inTx  bool
}

var _ storage.JobRepository = (*JobRepo)(nil)

func (r *JobRepo) Create(ctx context.Context, req *dto.CreateJobRequest) (*models.Job, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	now := time.Now()
	job := models.Job{
		ID:           uuid.New(),
		BusinessID:   req.BusinessID,
		Title:        req.Title,
		HourlyRate:   req.HourlyRate,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: requirements,
		Status:       models.JobStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.store.jobs[job.ID] = job
	return &job, nil
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	job, ok := r.store.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &job, nil
}

func (r *JobRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return r.GetByID(ctx, id)
}

func (r *JobRepo) ListOpen(ctx context.Context, req *dto.ListOpenJobsRequest) ([]models.Job, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	jobs := []models.Job{}
	for _, j := range r.store.jobs {
		if j.Status != models.JobStatusOpen {
			continue
		}
		if req.MinRate != nil && j.HourlyRate < *req.MinRate {
			continue
		}
		if req.MaxRate != nil && j.HourlyRate > *req.MaxRate {
			continue
		}
		jobs = append(jobs, j)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return paginate(jobs, req.Offset, req.Limit), nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, req *dto.UpdateJobStatusRequest) (*models.Job, error) {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	job, ok := r.store.jobs[req.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	job.Status = req.Status
	if req.AcceptedApplicantID != nil {
		id := *req.AcceptedApplicantID
		job.AcceptedApplicantID = &id
	}
	job.UpdatedAt = time.Now()

	r.store.jobs[job.ID] = job
	return &job, nil
}

func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	if _, ok := r.store.jobs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.store.jobs, id)
	return nil
}
