package routes

import (
	"shiftdesk/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers all routes related to users and auth.
func RegisterUserRoutes(
	rg *gin.RouterGroup,
	userHandler handlers.UserHandlerInterface, // Use interface
	authMiddleware gin.HandlerFunc,
) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Register)
		authGroup.POST("/login", userHandler.Login)
	}

	usersGroup := rg.Group("/users")
	usersGroup.Use(authMiddleware)
	{
		usersGroup.GET("/:id", userHandler.GetUserByID)
	}
}
