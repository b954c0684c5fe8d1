package handlers

import (
	"errors"
	"log"
	"net/http"

	"shiftdesk/internal/api/middleware"
	"shiftdesk/internal/models"
	"shiftdesk/internal/services"
	"shiftdesk/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplicationHandler holds dependencies for shift application operations.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate) *ApplicationHandler {
	return &ApplicationHandler{
		service:   service,
		validator: validate,
	}
}

// Compile-time check to ensure ApplicationHandler implements ApplicationHandlerInterface
var _ ApplicationHandlerInterface = (*ApplicationHandler)(nil)

// SubmitApplication applies the authenticated user to a shift.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	var req dto.SubmitApplicationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	req.ShiftID = shiftID
	req.ApplicantID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	app, err := h.service.SubmitApplication(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else if errors.Is(err, services.ErrDuplicateApplication) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this shift"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("SubmitApplication: Error applying to shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		}
		return
	}

	c.JSON(http.StatusCreated, MapApplicationModelToResponse(app))
}

// WithdrawApplication removes the authenticated user's pending application.
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	req := dto.WithdrawApplicationRequest{ShiftID: shiftID, ApplicantID: userID}
	if err := h.service.WithdrawApplication(c.Request.Context(), &req); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("WithdrawApplication: Error withdrawing from shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw application"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AcceptApplicant accepts one applicant for a shift and rejects the rest.
func (h *ApplicationHandler) AcceptApplicant(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	var req dto.AcceptApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ShiftID = shiftID
	req.ActorID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	shift, err := h.service.AcceptApplicant(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift or application not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to accept applicants for this shift"})
		} else if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("AcceptApplicant: Error accepting applicant for shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept applicant"})
		}
		return
	}

	c.JSON(http.StatusOK, MapShiftModelToShiftResponse(shift))
}

// RejectApplicant rejects a pending applicant.
func (h *ApplicationHandler) RejectApplicant(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	var req dto.RejectApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.ShiftID = shiftID
	req.ActorID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	app, err := h.service.RejectApplicant(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift or application not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to reject applicants for this shift"})
		} else if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("RejectApplicant: Error rejecting applicant for shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject applicant"})
		}
		return
	}

	c.JSON(http.StatusOK, MapApplicationModelToResponse(app))
}

// ConfirmShift lets the accepted applicant confirm they will work the shift.
func (h *ApplicationHandler) ConfirmShift(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	req := dto.ConfirmShiftRequest{ShiftID: shiftID, ApplicantID: userID}
	app, err := h.service.ConfirmShift(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift or application not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the accepted applicant for this shift"})
		} else if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("ConfirmShift: Error confirming shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm shift"})
		}
		return
	}

	c.JSON(http.StatusOK, MapApplicationModelToResponse(app))
}

// ListApplicationsByShift lists the applications on a shift for its owner.
func (h *ApplicationHandler) ListApplicationsByShift(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	var req dto.ListApplicationsByTargetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.TargetKind = models.TargetShift
	req.TargetID = shiftID
	req.UserID = userID

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

	apps, err := h.service.ListApplicationsByShift(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view applications for this shift"})
		} else {
			log.Printf("ListApplicationsByShift: Error listing applications for shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		}
		return
	}

	appResponses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		appResponses = append(appResponses, MapApplicationModelToResponse(&apps[i]))
	}

	c.JSON(http.StatusOK, appResponses)
}

// ListMyApplications lists the authenticated user's own applications.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListApplicationsByApplicantRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.ApplicantID = userID

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

	apps, err := h.service.ListApplicationsByApplicant(c.Request.Context(), &req)
	if err != nil {
		log.Printf("ListMyApplications: Error listing applications for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	appResponses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		appResponses = append(appResponses, MapApplicationModelToResponse(&apps[i]))
	}

	c.JSON(http.StatusOK, appResponses)
}

// EvaluateMatch reports how well the authenticated user matches a shift.
func (h *ApplicationHandler) EvaluateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	req := dto.EvaluateMatchRequest{ShiftID: shiftID, ApplicantID: userID}
	result, err := h.service.EvaluateMatch(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else {
			log.Printf("EvaluateMatch: Error evaluating match for shift %s: %v", shiftID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate match"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
