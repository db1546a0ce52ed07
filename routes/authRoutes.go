package routes

import (
	"citizen-be/controllers"
	"citizen-be/middlewares"
	"citizen-be/models"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", controllers.SignupUser)
		auth.POST("/login", controllers.LoginUser)
		auth.POST("/logout", controllers.LogoutUser)
		auth.GET("/profile", middlewares.AuthMiddleware(), controllers.GetProfile)
		auth.PUT("/profile", middlewares.AuthMiddleware(), controllers.UpdateProfile)
	}

	users := r.Group("/api/users")
	{
		users.GET("/workers",
			middlewares.AuthMiddleware(),
			middlewares.RequireRole(models.RoleAdmin),
			controllers.ListWorkers)
	}
}
