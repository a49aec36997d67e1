package main

import (
	"context"
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

	"jobportal/resume-parser/internal/config"
	"jobportal/resume-parser/internal/handlers"
	"jobportal/resume-parser/internal/repositories"
	"jobportal/resume-parser/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	runRepo := repositories.NewParseRunRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	normalizer := services.NewNormalizerService()
	cache := services.NewResultCache(cfg.Cache.TTL)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI when an API key is configured. The deepseek
	// backend runs without it; the gemini backend and talent indexing
	// require it.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	}

	// Select the parser backend
	var parser services.ResumeParserService
	switch cfg.Parser.Backend {
	case "gemini":
		if geminiService == nil {
			log.Fatalf("❌ Parser backend %q requires GEMINI_API_KEY", cfg.Parser.Backend)
		}
		parser = services.NewGeminiParserService(
			geminiService,
			services.NewPDFParserService(),
			normalizer,
			cfg.Gemini.MaxRetries,
		)
	case "deepseek":
		parser = services.NewDeepSeekParserService(
			cfg.Parser.Interpreter,
			cfg.Parser.Script,
			cfg.Parser.Timeout,
			normalizer,
		)
	default:
		log.Fatalf("❌ Unknown parser backend: %q", cfg.Parser.Backend)
	}
	log.Printf("✅ Parser backend initialized: %s\n", cfg.Parser.Backend)

	// Initialize talent indexing when Qdrant and Gemini are both available
	var indexer services.Indexer
	var talentService services.TalentService
	if geminiService != nil && cfg.Qdrant.URL != "" {
		talentService, err = services.NewTalentService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}

		if err := talentService.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")

		indexer = services.NewIndexer(runRepo, talentService, cfg.Indexer.Concurrency)
		indexer.Start(context.Background())
		log.Println("✅ Talent indexer started successfully")
	} else {
		log.Println("⚠️ Talent indexing disabled (requires GEMINI_API_KEY and QDRANT_URL)")
	}

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	parseHandler := handlers.NewParseHandler(
		docRepo,
		runRepo,
		storageService,
		parser,
		cache,
		indexer,
	)
	resultHandler := handlers.NewResultHandler(runRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Parser API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/upload-resume", uploadHandler.HandleUpload)
	api.Post("/parse-resume", parseHandler.HandleParse)
	api.Get("/parses/:id", resultHandler.HandleGetParseRun)

	if talentService != nil {
		talentHandler := handlers.NewTalentHandler(talentService)
		api.Get("/talent/search", talentHandler.HandleSearch)
	}

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Parser API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload-resume",
				"POST /api/v1/parse-resume",
				"GET /api/v1/parses/:id",
				"GET /api/v1/talent/search",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if indexer != nil {
			indexer.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

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
