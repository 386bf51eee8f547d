// Manual trigger for the lyric difficulty classification pass.
//
// The same pass is exposed on the admin API (POST /api/admin/classify).
// This script exists for first-time setup, when the catalog has just been
// scraped and the admin token is not configured yet.
//
// Usage: go run scripts/classify.go

package main

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/repository"
	"chosung_quiz_backend/internal/service"
	"chosung_quiz_backend/pkg/database"
	"chosung_quiz_backend/pkg/logger"
	"context"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	quizRepo := repository.NewQuizRepository(db)
	classifier := service.NewClassifierService(quizRepo, cfg.AI)

	log.Println("Running classification pass...")
	report, err := classifier.ClassifyAll(context.Background())
	if err != nil {
		log.Fatalf("Classification failed: %v", err)
	}
	log.Printf("Done: %d of %d lines classified", report.Classified, report.Total)
}
