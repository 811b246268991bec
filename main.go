// @title Skill Assessment API
// @version 1.0
// @description Adaptive skill assessment engine: AI-generated question banks, randomized tests, weak-topic remediation.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"skill_assess_backend/internal/app"
	"skill_assess_backend/internal/config"
	"skill_assess_backend/pkg/configwatcher"
	"skill_assess_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
