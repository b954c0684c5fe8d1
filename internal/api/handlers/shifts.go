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

// ShiftHandler holds dependencies for shift operations.
type ShiftHandler struct {
	service   services.ShiftService
	validator *validator.Validate
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(service services.ShiftService, validate *validator.Validate) *ShiftHandler {
	return &ShiftHandler{
		service:   service,
		validator: validate,
	}
}

// Compile-time check to ensure ShiftHandler implements ShiftHandlerInterface
var _ ShiftHandlerInterface = (*ShiftHandler)(nil)

// CreateShift posts a new shift for the authenticated business.
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	req.BusinessID = userID

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	shift, err := h.service.CreateShift(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business account not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			log.Printf("CreateShift: Error creating shift: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shift"})
		}
		return
	}

	c.JSON(http.StatusCreated, MapShiftModelToShiftResponse(shift))
}

// GetShiftByID retrieves a single shift.
func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	shift, err := h.service.GetShiftByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else {
			log.Printf("GetShiftByID: Error fetching shift %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shift"})
		}
		return
	}

	c.JSON(http.StatusOK, MapShiftModelToShiftResponse(shift))
}

// ListOpenShifts lists open shifts with optional role and rate filters.
func (h *ShiftHandler) ListOpenShifts(c *gin.Context) {
	var req dto.ListOpenShiftsRequest
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

	shifts, err := h.service.ListOpenShifts(c.Request.Context(), &req)
	if err != nil {
		log.Printf("ListOpenShifts: Error listing open shifts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return
	}

	shiftResponses := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		shiftResponses = append(shiftResponses, MapShiftModelToShiftResponse(&shifts[i]))
	}

	c.JSON(http.StatusOK, shiftResponses)
}

// ListMyShifts lists the authenticated business's own shifts.
func (h *ShiftHandler) ListMyShifts(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListShiftsByBusinessRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	req.BusinessID = userID

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

	shifts, err := h.service.ListShiftsByBusiness(c.Request.Context(), &req)
	if err != nil {
		log.Printf("ListMyShifts: Error listing shifts for business %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return
	}

	shiftResponses := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		shiftResponses = append(shiftResponses, MapShiftModelToShiftResponse(&shifts[i]))
	}

	c.JSON(http.StatusOK, shiftResponses)
}

// DeleteShift removes an open shift owned by the authenticated business.
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID format"})
		return
	}

	req := dto.DeleteShiftRequest{ID: id, UserID: userID}
	if err := h.service.DeleteShift(c.Request.Context(), &req); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		} else if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this shift"})
		} else if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			log.Printf("DeleteShift: Error deleting shift %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shift"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
