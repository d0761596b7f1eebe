package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"notekeeper/handler"
	"notekeeper/middleware"
	"notekeeper/repository"
	"notekeeper/services"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	userRepo := repository.GetUserRepo(utils.MongoClient)
	notesRepo := repository.GetNotesRepo(utils.MongoClient)

	userService := usecase.NewUserService(userRepo)
	notesService := usecase.NewNotesService(notesRepo)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.POST("/register", func(c *gin.Context) {
		handler.RegistrationHandler(c, userService)
	})
	router.POST("/login", func(c *gin.Context) {
		handler.LoginHandler(c, userService)
	})

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", handler.LogoutHandler)

		notes := protected.Group("/notes")
		{
			// List and query operations
			notes.GET("", func(c *gin.Context) {
				handler.GetAllNotesHandler(c, notesService)
			})
			notes.GET("/all", func(c *gin.Context) {
				handler.GetAllNotesHandler(c, notesService)
			})
			notes.GET("/archived", func(c *gin.Context) {
				handler.GetArchivedNotesHandler(c, notesService)
			})
			notes.GET("/trash", func(c *gin.Context) {
				handler.GetTrashNotesHandler(c, notesService)
			})
			notes.GET("/search", func(c *gin.Context) {
				handler.SearchNotesHandler(c, notesService)
			})
			notes.GET("/tag/:tag", func(c *gin.Context) {
				handler.GetNotesByTagHandler(c, notesService)
			})
			notes.GET("/reminders", func(c *gin.Context) {
				handler.GetRemindersHandler(c, notesService)
			})
			notes.GET("/get/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, notesService)
			})

			// Lifecycle operations
			notes.POST("", func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, notesService)
			})
			notes.DELETE("/permanent/:id", func(c *gin.Context) {
				handler.PurgeNoteHandler(c, notesService)
			})
		}
	}

	return router
}

func main() {
	db := utils.MongoClient.Database(os.Getenv("MONGO_DB"))
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	// Redis is optional; without it revoked tokens simply age out.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		services.TokenBlacklist = blacklist
	}

	if utils.GetEnvAsBool("SYSTEM_METRICS_ENABLED", true) {
		utils.StartSystemMetrics(utils.GetEnvAsDuration("SYSTEM_METRICS_INTERVAL", 15*time.Second))
	}

	router := setupRouter()

	port := utils.GetEnvAsString("PORT", "8080")
	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
