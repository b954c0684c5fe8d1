package handlers

import "github.com/gin-gonic/gin"

// UserHandlerInterface defines the methods needed by the user routes.
type UserHandlerInterface interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetUserByID(c *gin.Context)
}

// ShiftHandlerInterface defines the methods needed by the shift routes.
type ShiftHandlerInterface interface {
	CreateShift(c *gin.Context)
	GetShiftByID(c *gin.Context)
	ListOpenShifts(c *gin.Context)
	ListMyShifts(c *gin.Context)
	DeleteShift(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the shift
// application routes.
type ApplicationHandlerInterface interface {
	SubmitApplication(c *gin.Context)
	WithdrawApplication(c *gin.Context)
	AcceptApplicant(c *gin.Context)
	RejectApplicant(c *gin.Context)
	ConfirmShift(c *gin.Context)
	ListApplicationsByShift(c *gin.Context)
	ListMyApplications(c *gin.Context)
	EvaluateMatch(c *gin.Context)
}

// JobHandlerInterface defines the methods needed by the job routes.
type JobHandlerInterface interface {
	CreateJob(c *gin.Context)
	GetJobByID(c *gin.Context)
	ListOpenJobs(c *gin.Context)
	DeleteJob(c *gin.Context)
	CloseJob(c *gin.Context)
	SubmitApplication(c *gin.Context)
	WithdrawApplication(c *gin.Context)
	AcceptApplicant(c *gin.Context)
}
