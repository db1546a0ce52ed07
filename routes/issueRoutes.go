package routes

import (
	"citizen-be/controllers"
	"citizen-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine) {
	issues := r.Group("/api/issues")
	{
		issues.GET("", middlewares.OptionalAuth(), controllers.GetAllIssues)
		issues.POST("",
			middlewares.AuthMiddleware(),
			middlewares.IssueRateLimiter(10),
			controllers.CreateIssue)
		issues.GET("/recent", controllers.RecentIssues)
		issues.GET("/:id", middlewares.OptionalAuth(), controllers.GetIssue)
		issues.PUT("/:id", middlewares.AuthMiddleware(), controllers.UpdateIssue)
		issues.DELETE("/:id", middlewares.AuthMiddleware(), controllers.DeleteIssue)
		issues.GET("/:id/updates", middlewares.AuthMiddleware(), controllers.GetIssueUpdates)

		issues.GET("/:id/comments", middlewares.OptionalAuth(), controllers.GetComments)
		issues.POST("/:id/comments", middlewares.AuthMiddleware(), controllers.CreateComment)

		issues.GET("/:id/vote", middlewares.AuthMiddleware(), controllers.GetVoteState)
		issues.POST("/:id/vote", middlewares.AuthMiddleware(), controllers.ApplyVote)
	}
}
