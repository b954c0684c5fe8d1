package handlers

import (
	"fmt"
	"time"

	"shiftdesk/internal/models"
	"shiftdesk/internal/transport/dto"

	"github.com/go-playground/validator/v10"
)

func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorsMap["error"] = "Invalid validation error type"
		return errorsMap
	}
	for _, fieldError := range validationErrors {
		fieldName := fieldError.Field()
		errorsMap[fieldName] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fieldError.Tag())
		switch fieldError.Tag() {
		case "required":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' is required", fieldName)
		case "email":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid email address", fieldName)
		case "min":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at least %s characters long", fieldName, fieldError.Param())
		case "max":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at most %s characters long", fieldName, fieldError.Param())
		case "gt", "gtfield":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be greater than %s", fieldName, fieldError.Param())
		case "uuid":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid UUID", fieldName)
		}
	}
	return errorsMap
}

// MapUserModelToUserResponse converts a models.User to a dto.UserResponse
func MapUserModelToUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		WorkRole:  user.WorkRole,
		Skills:    user.Skills,
		Languages: user.Languages,
		Rating:    user.Rating,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// MapShiftModelToShiftResponse converts a models.Shift to a dto.ShiftResponse
func MapShiftModelToShiftResponse(shift *models.Shift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:                  shift.ID,
		BusinessID:          shift.BusinessID,
		BusinessName:        shift.BusinessName,
		Role:                shift.Role,
		StartsAt:            shift.StartsAt,
		EndsAt:              shift.EndsAt,
		HourlyRate:          shift.HourlyRate,
		Location:            shift.Location,
		Description:         shift.Description,
		Requirements:        shift.Requirements,
		Languages:           shift.Languages,
		Status:              shift.Status,
		AcceptedApplicantID: shift.AcceptedApplicantID,
		CreatedAt:           shift.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           shift.UpdatedAt.Format(time.RFC3339),
	}
}

// MapApplicationModelToResponse converts a models.Application to a dto.ApplicationResponse
func MapApplicationModelToResponse(app *models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:          app.ID,
		TargetKind:  app.TargetKind,
		TargetID:    app.TargetID,
		ApplicantID: app.ApplicantID,
		Message:     app.Message,
		Status:      app.Status,
		CreatedAt:   app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   app.UpdatedAt.Format(time.RFC3339),
	}
}

// MapJobModelToJobResponse converts a models.Job to a dto.JobResponse
func MapJobModelToJobResponse(job *models.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:                  job.ID,
		BusinessID:          job.BusinessID,
		Title:               job.Title,
		HourlyRate:          job.HourlyRate,
		Location:            job.Location,
		Description:         job.Description,
		Requirements:        job.Requirements,
		Status:              job.Status,
		AcceptedApplicantID: job.AcceptedApplicantID,
		CreatedAt:           job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           job.UpdatedAt.Format(time.RFC3339),
	}
}
