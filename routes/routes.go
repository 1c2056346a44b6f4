package routes

import (
	"os"
	"strings"

	"beautycrm-backend/config"
	"beautycrm-backend/controllers"
	"beautycrm-backend/models"
	"beautycrm-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Uploaded files served back as static assets
	r.Static("/uploads", utils.UploadDir())

	r.GET("/health", controllers.GetHealth)

	authController := &controllers.AuthController{DB: db}
	clientController := &controllers.ClientController{DB: db}
	interactionController := &controllers.InteractionController{DB: db}
	surveyController := &controllers.SurveyController{DB: db}
	kpiController := &controllers.KPIController{DB: db}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	adminOnly := utils.RequireRole(models.RoleAdmin)
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", clientController.CreateClient)
			clients.GET("", adminOnly, clientController.GetClients)
			clients.GET("/:id", clientController.GetClient)
			clients.PUT("/:id", clientController.UpdateClient)
			clients.DELETE("/:id", adminOnly, clientController.DeleteClient)
			clients.PUT("/:id/anonymize", adminOnly, clientController.AnonymizeClient)
		}

		// Interaction log routes
		interactions := api.Group("/interaction-logs")
		{
			interactions.POST("", interactionController.CreateInteraction)
			interactions.GET("", adminOnly, interactionController.GetInteractions)
			interactions.GET("/client/:clientId", interactionController.GetClientInteractions)
			interactions.GET("/advisor/:advisorId", interactionController.GetAdvisorInteractions)
			interactions.GET("/:id", interactionController.GetInteraction)
			interactions.PUT("/:id", interactionController.UpdateInteraction)
			interactions.DELETE("/:id", interactionController.DeleteInteraction)
		}

		// Satisfaction survey routes
		surveys := api.Group("/satisfaction-surveys")
		{
			surveys.POST("", surveyController.CreateSurvey)
			surveys.GET("", adminOnly, surveyController.GetSurveys)
			surveys.GET("/client/:clientId", surveyController.GetClientSurveys)
			surveys.GET("/interaction/:interactionId", surveyController.GetSurveyByInteraction)
			surveys.GET("/stats/summary", adminOnly, surveyController.GetSurveyStats)
			surveys.GET("/:id", surveyController.GetSurvey)
			surveys.PUT("/:id", surveyController.UpdateSurvey)
			surveys.DELETE("/:id", adminOnly, surveyController.DeleteSurvey)
		}

		// KPI routes
		kpis := api.Group("/kpis", adminOnly)
		{
			kpis.GET("/summary", kpiController.GetSummary)
			kpis.GET("/satisfaction-score", kpiController.GetSatisfactionScore)
			kpis.GET("/inactive-clients", kpiController.GetInactiveClients)
		}
	}

	return r
}
