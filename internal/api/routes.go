package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath/internal/service"
)

// SetupRoutes wires all handlers onto the router.
func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	planService service.PlanService,
	feedbackService service.FeedbackService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	feedbackHandler := NewFeedbackHandler(feedbackService)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/recovery-question", authHandler.RecoveryQuestion)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(authService.JWTSecret()))
	{
		protected.POST("/plans", planHandler.GeneratePlan)
		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/plans/:id", planHandler.GetPlan)
		protected.POST("/plans/:id/extend", planHandler.ExtendPlan)
		protected.DELETE("/plans/:id", planHandler.DeletePlan)
		protected.POST("/plans/:id/feedback", feedbackHandler.SubmitFeedback)

		protected.PATCH("/tasks/:id", planHandler.ToggleTask)
	}

	// The admin view is guarded by the out-of-band admin password rather than
	// a user session.
	apiV1.GET("/admin/feedback", feedbackHandler.AdminListFeedback)
}
