package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/config"
	"github.com/Mishraaa-Anant/Automated-HR/internal/handlers"
	"github.com/Mishraaa-Anant/Automated-HR/internal/repositories"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize caches and repositories
	embeddingStore := cache.NewEmbeddingStore(cfg.Storage.EmbeddingCache)
	scoreStore := cache.NewScoreStore(cfg.Storage.ATSCache)
	contactStore := cache.NewContactStore(cfg.Storage.ContactCache)
	historyRepo := repositories.NewHistoryRepository(cfg.Storage.HistoryFile)
	log.Println("✅ Caches and repositories initialized")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.ResumeFolder)
	if err := storageService.EnsureResumeDir(); err != nil {
		log.Fatalf("❌ Failed to create resume directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the scoring pipeline
	shortlister := services.NewShortlistService(geminiService, embeddingStore, storageService, pdfParser)
	fastScorer := services.NewFastScorer(scoreStore)
	llmScorer := services.NewLLMScorer(geminiService, scoreStore, cfg.Worker.RetryMaxAttempts)
	contactExtractor := services.NewContactExtractor(geminiService, contactStore, cfg.Worker.RetryMaxAttempts)

	batchProcessor := services.NewBatchProcessor(
		shortlister,
		fastScorer,
		llmScorer,
		contactExtractor,
		cfg.Worker.MaxWorkers,
	)
	log.Println("✅ Batch processor initialized")

	mcqService := services.NewMCQService(geminiService, cfg.Worker.RetryMaxAttempts)
	emailService := services.NewEmailService(cfg.SMTP)
	if !cfg.SMTPConfigured() {
		log.Println("⚠️  SMTP not configured. Email features disabled.")
	}

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(storageService, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(
		batchProcessor,
		mcqService,
		emailService,
		historyRepo,
		cfg.Server.Port,
	)
	resultsHandler := handlers.NewResultsHandler(historyRepo)
	testHandler := handlers.NewTestHandler(mcqService, historyRepo)
	workflowHandler := handlers.NewWorkflowHandler(emailService, historyRepo, cfg.Server.Port)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Automated-HR API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 10,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/results", resultsHandler.HandleGetResults)
	api.Delete("/history/:id", resultsHandler.HandleDeleteCandidate)
	api.Get("/config", resultsHandler.HandleGetConfig)
	api.Post("/schedule", workflowHandler.HandleSchedule)
	api.Post("/invite", workflowHandler.HandleInvite)
	api.Get("/test/:id", testHandler.HandleGetTest)
	api.Post("/test/:id/submit", testHandler.HandleSubmitTest)
	api.Post("/score/:id", workflowHandler.HandleHRScore)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Automated-HR API",
			"version": "3.1",
			"endpoints": []string{
				"POST /api/upload",
				"POST /api/analyze",
				"GET /api/results",
				"DELETE /api/history/:id",
				"GET /api/config",
				"POST /api/schedule",
				"POST /api/invite",
				"GET /api/test/:id",
				"POST /api/test/:id/submit",
				"POST /api/score/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
