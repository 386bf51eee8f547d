package main

import (
	"chosung_quiz_backend/internal/app"
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/pkg/database"
	"chosung_quiz_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	if cfg.MigrateOnly {
		logger.InitLogger(cfg)
		if _, err := database.InitDB(&cfg.Database); err != nil {
			logger.Log.Fatal("Migration failed", zap.Error(err))
		}
		logger.Log.Info("Migration complete")
		return
	}

	application := app.NewApp(cfg)
	application.Run()
}
