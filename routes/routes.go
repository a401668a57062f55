package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmdavis/whatsapp-diet/controllers"
	"github.com/hmdavis/whatsapp-diet/middlewares"
)

type Controllers struct {
	Webhook  *controllers.WebhookController
	FoodLogs *controllers.FoodLogController
	Users    *controllers.UserController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/webhook/message", ctrl.Webhook.HandleMessage)

		api.POST("/food-logs/:user_id", ctrl.FoodLogs.Create)
		api.GET("/food-logs/:user_id", ctrl.FoodLogs.List)
		api.GET("/food-logs/:user_id/summary", ctrl.FoodLogs.Summary)

		api.POST("/users", ctrl.Users.Create)
		api.GET("/users/:user_id", ctrl.Users.Get)
		api.PUT("/users/:user_id/targets", ctrl.Users.UpdateTargets)
	}

	return r
}
