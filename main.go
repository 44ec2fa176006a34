package main

import (
	"context"
	"log"
	"os"

	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/connections"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/handlers"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/messaging"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/routes"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/store"
	"github.com/Prabhatsingh001/CodeBrosPlatform/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	// Connect to database
	st, err := store.NewPostgres(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()
	log.Println("✅ Database connected successfully using PGX")

	// Wire services
	connSvc := connections.NewService(st)
	msgSvc := messaging.NewService(st)

	// Start WebSocket hub
	hub := ws.NewHub(st)
	go hub.Run()
	log.Println("✅ WebSocket Hub initialized")

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "CodeBros API v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app, handlers.New(st, connSvc, msgSvc, hub))

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
