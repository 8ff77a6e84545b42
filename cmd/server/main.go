package main

import (
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"digiassistant-client-V1.0/internal/config"
	"digiassistant-client-V1.0/internal/controller"
	"digiassistant-client-V1.0/internal/db"
	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/repository"
	"digiassistant-client-V1.0/internal/service"
	"digiassistant-client-V1.0/pkg/middleware"
	"digiassistant-client-V1.0/utilities"
)

func main() {
	printStartUpBanner()

	// A .env file can override the XML values.
	_ = godotenv.Load()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utilities.SetupLogging(cfg.Context.LogDir)
	utilities.ConfigureJWT(cfg.Authentication.TokenSecret, cfg.Authentication.TokenExpiryMinutes)

	// Initialize DB using the loaded config.
	db.InitDBFromConfig(cfg)
	// Run migrations.
	if err := db.GetDB().AutoMigrate(&model.User{}, &model.Conversation{}, &model.ConversationEntry{}); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create repositories.
	userRepo := repository.NewUserRepository()
	conversationRepo := repository.NewConversationRepository()

	// Create services.
	accountService := service.NewAccountService(userRepo, conversationRepo)
	conversationService := service.NewConversationService(conversationRepo)
	reportService := service.NewReportService()

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	controller.RegisterRoutes(r, accountService, conversationService, reportService)

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("DIGIASSISTANT", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("DIGIASSISTANT diagnostic API (v%s)\n\n", "1.0.0")
}
