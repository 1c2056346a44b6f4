package main

import (
	"fmt"
	"log"
	"os"

	"beautycrm-backend/config"
	"beautycrm-backend/models"
	"beautycrm-backend/routes"
	"beautycrm-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.InteractionLog{},
		&models.InteractionFile{},
		&models.SatisfactionSurvey{},
		&models.FollowUpLog{},
	); err != nil {
		log.Fatalf("Auto migration failed: %v", err)
	}

	if os.Getenv("FOLLOWUP_REMINDERS") == "true" {
		services.NewFollowUpService(db).StartScheduler()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db)
	printRoutes(r)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
