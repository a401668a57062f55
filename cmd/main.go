package main

import (
	"log"

	"github.com/hmdavis/whatsapp-diet/config"
	"github.com/hmdavis/whatsapp-diet/controllers"
	"github.com/hmdavis/whatsapp-diet/routes"
	"github.com/hmdavis/whatsapp-diet/services"
	"github.com/hmdavis/whatsapp-diet/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	openAI := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	users := services.NewUserService(db)
	foodLogs := services.NewFoodLogService(db, openAI)
	messages := services.NewMessageService(
		users,
		services.NewClassifierService(),
		foodLogs,
		services.NewNutritionService(),
		services.NewFormatterService(),
		openAI,
		logger,
	)

	r := routes.SetupRouter(routes.Controllers{
		Webhook:  controllers.NewWebhookController(messages),
		FoodLogs: controllers.NewFoodLogController(foodLogs),
		Users:    controllers.NewUserController(users),
	})

	logger.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
