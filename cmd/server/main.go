package main

import (
	"log"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/handlers"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()
	r := handlers.SetupRouter(cfg)

	log.Printf("Starting Bhoomi advisory API on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
