package routes

import (
	"shiftdesk/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers all routes related to ongoing job postings.
func RegisterJobRoutes(
	rg *gin.RouterGroup,
	jobHandler handlers.JobHandlerInterface, // Use interface
	authMiddleware gin.HandlerFunc,
) {
	jobsGroup := rg.Group("/jobs")
	jobsGroup.Use(authMiddleware)
	{
		jobsGroup.POST("", jobHandler.CreateJob)
		jobsGroup.GET("", jobHandler.ListOpenJobs)
		jobsGroup.GET("/:id", jobHandler.GetJobByID)
		jobsGroup.DELETE("/:id", jobHandler.DeleteJob)
		jobsGroup.PATCH("/:id/close", jobHandler.CloseJob)

		jobsGroup.POST("/:id/apply", jobHandler.SubmitApplication)
		jobsGroup.DELETE("/:id/apply", jobHandler.WithdrawApplication)
		jobsGroup.PATCH("/:id/accept", jobHandler.AcceptApplicant)
	}
}
