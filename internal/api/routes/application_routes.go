package routes

import (
	"shiftdesk/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers all routes related to shift applications.
func RegisterApplicationRoutes(
	rg *gin.RouterGroup,
	applicationHandler handlers.ApplicationHandlerInterface, // Use interface
	authMiddleware gin.HandlerFunc,
) {
	// Group for actions scoped to a specific shift
	shiftsGroup := rg.Group("/shifts")
	shiftsGroup.Use(authMiddleware)
	{
		// Applicant side
		shiftsGroup.POST("/:id/apply", applicationHandler.SubmitApplication)
		shiftsGroup.DELETE("/:id/apply", applicationHandler.WithdrawApplication)
		shiftsGroup.PATCH("/:id/confirm", applicationHandler.ConfirmShift)
		shiftsGroup.GET("/:id/match", applicationHandler.EvaluateMatch)

		// Business side
		shiftsGroup.PATCH("/:id/accept", applicationHandler.AcceptApplicant)
		shiftsGroup.PATCH("/:id/reject", applicationHandler.RejectApplicant)
		shiftsGroup.GET("/:id/applications", applicationHandler.ListApplicationsByShift)
	}

	// Group for the current user's own applications
	appsGroup := rg.Group("/applications")
	appsGroup.Use(authMiddleware)
	{
		appsGroup.GET("/my", applicationHandler.ListMyApplications)
	}
}
