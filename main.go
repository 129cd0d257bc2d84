package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pollster-backend/cache"
	"pollster-backend/database"
	"pollster-backend/handlers"
	"pollster-backend/routes"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := cache.InitRedis(); err != nil {
		log.Printf("Warning: Redis initialization failed: %v", err)
	}

	handlers.InitHandlers(database.DB)

	router := routes.SetupRouter()
	srv := routes.StartServer(router)

	// Wait for an interrupt signal to shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shut down: %v", err)
	}

	database.CloseDB()
	cache.CloseRedis()

	log.Println("Server shut down cleanly")
}
