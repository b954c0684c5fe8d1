package handlers

import (
	"errors"
	"log"
	"net/http"

	"shiftdesk/internal/api/middleware"
	"shiftdesk/internal/services"
	"shiftdesk/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobHandler holds dependencies for job posting operations.
type JobHandler struct {
	service   services.JobService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobService, validate *validator.Validate) *JobHandler {
	return &JobHandler{
		service:   service,
		validator: validate,
	}
}

// Compile-time check to ensure JobHandler implements JobHandlerInterface
var _ JobHandlerInterface = (*JobHandler)(nil)

// CreateJob posts a new ongoing job for the authenticated business.
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.BusinessID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business account not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			log.Printf("CreateJob: Error creating job: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		}
		return
	}

	c.JSON(http.StatusCreated, MapJobModelToJobResponse(job))
}

// GetJobByID retrieves a single job posting.
func (h *JobHandler) GetJobByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	job, err := h.service.GetJobByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			log.Printf("GetJobByID: Error fetching job %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		}
		return
	}

	c.JSON(http.StatusOK, MapJobModelToJobResponse(job))
}

// ListOpenJobs lists open job postings with optional rate filters.
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	var req dto.ListOpenJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	jobs, err := h.service.ListOpenJobs(c.Request.Context(), &req)
	if err != nil {
		log.Printf("ListOpenJobs: Error listing open jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	jobResponses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		jobResponses = append(jobResponses, MapJobModelToJobResponse(&jobs[i]))
	}

	c.JSON(http.StatusOK, jobResponses)
}

// DeleteJob removes an open job owned by the authenticated business.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	req := dto.DeleteJobRequest{ID: id, UserID: userID}
	if err := h.service.DeleteJob(c.Request.Context(), &req); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this job"})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("DeleteJob: Error deleting job %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// CloseJob closes an open or filled job and rejects its pending applicants.
func (h *JobHandler) CloseJob(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	job, err := h.service.CloseJob(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this job"})
		} else if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("CloseJob: Error closing job %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close job"})
		}
		return
	}

	c.JSON(http.StatusOK, MapJobModelToJobResponse(job))
}

// SubmitApplication applies the authenticated user to a job.
func (h *JobHandler) SubmitApplication(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	var req dto.SubmitJobApplicationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.JobID = jobID
	req.ApplicantID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	app, err := h.service.SubmitApplication(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else if errors.Is(err, services.ErrDuplicateApplication) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this job"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("SubmitApplication: Error applying to job %s: %v", jobID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		}
		return
	}

	c.JSON(http.StatusCreated, MapApplicationModelToResponse(app))
}

// WithdrawApplication removes the authenticated user's pending job application.
func (h *JobHandler) WithdrawApplication(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	req := dto.WithdrawJobApplicationRequest{JobID: jobID, ApplicantID: userID}
	if err := h.service.WithdrawApplication(c.Request.Context(), &req); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("WithdrawApplication: Error withdrawing from job %s: %v", jobID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw application"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AcceptApplicant accepts one applicant for a job and rejects the rest.
func (h *JobHandler) AcceptApplicant(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	var req dto.AcceptJobApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.JobID = jobID
	req.ActorID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	job, err := h.service.AcceptApplicant(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job or application not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to accept applicants for this job"})
		} else if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("AcceptApplicant: Error accepting applicant for job %s: %v", jobID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept applicant"})
		}
		return
	}

	c.JSON(http.StatusOK, MapJobModelToJobResponse(job))
}
