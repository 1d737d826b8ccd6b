package main

import (
	"log"
	"os"

	"banyan/internal/db"
	"banyan/internal/router"
	"banyan/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// 启动异步计数对账
	services.GetReconciler().StartScheduledReconcile()

	// Initialize Gin
	r := gin.Default()

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("banyan listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
