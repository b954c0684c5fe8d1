package routes

import (
	"shiftdesk/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterShiftRoutes registers all routes related to shift postings.
func RegisterShiftRoutes(
	rg *gin.RouterGroup,
	shiftHandler handlers.ShiftHandlerInterface, // Use interface
	authMiddleware gin.HandlerFunc,
) {
	shiftsGroup := rg.Group("/shifts")
	shiftsGroup.Use(authMiddleware)
	{
		shiftsGroup.POST("", shiftHandler.CreateShift)
		shiftsGroup.GET("", shiftHandler.ListOpenShifts)
		shiftsGroup.GET("/my", shiftHandler.ListMyShifts)
		shiftsGroup.GET("/:id", shiftHandler.GetShiftByID)
		shiftsGroup.DELETE("/:id", shiftHandler.DeleteShift)
	}
}
