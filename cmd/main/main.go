package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"labels-service/internal/clients/woocommerce"
	"labels-service/internal/config"
	"labels-service/internal/handlers"
	"labels-service/internal/middleware"
	"labels-service/internal/models"
	"labels-service/internal/repository"
	"labels-service/internal/services"
	"labels-service/internal/sessions"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize audit database (optional - graceful degradation when unconfigured)
	var auditRepo *repository.AuditRepository
	if cfg.AuditEnabled() {
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to audit database: %v", err)
			log.Println("Continuing without run auditing...")
		} else {
			if err := db.AutoMigrate(
				&models.AssemblyRunRecord{},
				&models.CatalogPushRecord{},
			); err != nil {
				log.Fatal("Failed to migrate audit database:", err)
			}
			auditRepo = repository.NewAuditRepository(db)
			log.Println("✓ Run auditing enabled")
		}
	} else {
		log.Println("DB_HOST not configured, run auditing disabled")
	}

	// Session registry shared by both tools
	sessionStore := sessions.NewStore()

	// Label assembly pipeline
	labelStore := services.NewLabelStore(cfg.LabelStoreDir)
	if !labelStore.Available() {
		log.Printf("Warning: label store directory %s does not exist; assembly requests will be rejected until it does", cfg.LabelStoreDir)
	}
	assemblyService := services.NewAssemblyService(labelStore, services.NewPDFMerger(), auditRepo, logger)

	// Catalog sync
	catalogClient := woocommerce.NewClient(cfg.CatalogBaseURL, cfg.ConsumerKey, cfg.ConsumerSecret)
	catalogService := services.NewCatalogService(catalogClient, sessionStore, services.SyncOptions{
		EnforceManageStock:  cfg.EnforceManageStock,
		RequireRowSelection: cfg.RequireRowSelection,
	}, auditRepo, logger)

	// Initialize handlers
	assemblyHandler := handlers.NewAssemblyHandler(assemblyService, sessionStore, auditRepo)
	catalogHandler := handlers.NewCatalogHandler(catalogService, sessionStore, cfg.ValidateIDAsInteger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	api := router.Group("/api/v1")

	// Label assembly routes
	labels := api.Group("/labels")
	{
		labels.POST("/assemble", assemblyHandler.AssembleLabels)
		labels.GET("/runs/:id", assemblyHandler.GetRun)
		labels.GET("/runs/:id/document", assemblyHandler.DownloadDocument)
		labels.GET("/store", assemblyHandler.GetStoreReport)
		labels.GET("/history", assemblyHandler.GetHistory)
	}

	// Catalog sync routes
	catalog := api.Group("/catalog")
	{
		catalog.POST("/products/:id/fetch", catalogHandler.FetchProduct)
		catalog.GET("/sessions/:id", catalogHandler.GetSession)
		catalog.POST("/sessions/:id/submit", catalogHandler.SubmitEdits)
		catalog.DELETE("/sessions/:id", catalogHandler.DeleteSession)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Labels service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Labels service stopped")
}
