package handlers

import (
	"errors"
	"log"
	"net/http"

	"shiftdesk/internal/services"
	"shiftdesk/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserHandler holds dependencies for user operations.
type UserHandler struct {
	service   services.UserService
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: validate,
	}
}

// Compile-time check to ensure UserHandler implements UserHandlerInterface
var _ UserHandlerInterface = (*UserHandler)(nil)

// Register creates a new user account.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		} else {
			log.Printf("Register: Error creating user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserModelToUserResponse(user))
}

// Login authenticates a user and returns a JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			log.Printf("Login: Error logging in user %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  MapUserModelToUserResponse(user),
	})
}

// GetUserByID retrieves a user's public profile.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), &dto.GetUserByIDRequest{ID: id})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("GetUserByID: Error fetching user %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, MapUserModelToUserResponse(user))
}
