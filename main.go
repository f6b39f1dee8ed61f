package main

import (
	"log"
	"time"

	"github.com/courtdesk/courtboard-backend/config"
	"github.com/courtdesk/courtboard-backend/database"
	"github.com/courtdesk/courtboard-backend/handlers"
	"github.com/courtdesk/courtboard-backend/jobs"
	"github.com/courtdesk/courtboard-backend/services"
	"github.com/courtdesk/courtboard-backend/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate("database/schema.sql"); err != nil {
		log.Printf("Migration warning: %v", err)
	}

	scraperConfig := shared.NewDefaultScraperConfig()
	scraperConfig.HTTPRequestTimeout = cfg.GetScrapeTimeout()
	scraperConfig.BatchSize = cfg.GetScrapeBatchSize()
	scraperConfig.ValidateAndApplyDefaults()

	// Scrape pipeline
	clientFactory := shared.NewHTTPClientFactory(scraperConfig.HTTPRequestTimeout)
	renderer := services.NewBoardRenderer(scraperConfig.RenderTimeout, scraperConfig.RenderRateLimit)
	fetcher := services.NewBoardFetcher(clientFactory, renderer, scraperConfig.HTTPRequestTimeout)
	detector := services.NewFormatDetector()
	parser := services.NewBoardParser()
	probe := services.NewBoardProbe(detector, scraperConfig.HTTPRequestTimeout)

	cacheService := services.NewDisplayCacheService(database.DB)
	courtService := services.NewCourtService(database.DB)

	// Live fan-out hub; the orchestrator publishes fresh snapshots into it
	hub := services.NewFanoutHub()

	orchestrator := services.NewScrapeOrchestrator(detector, parser, fetcher, cacheService, hub, scraperConfig.BatchSize)

	logrus.WithFields(logrus.Fields{
		"fetch_timeout":    scraperConfig.HTTPRequestTimeout,
		"batch_size":       scraperConfig.BatchSize,
		"refresh_interval": cfg.GetRefreshInterval(),
	}).Info("Display board services initialized")

	// Background refresh job
	refreshJob := jobs.NewDisplayBoardRefreshJob(orchestrator, courtService)
	go func() {
		// Run once shortly after startup, then on the configured interval
		time.Sleep(2 * time.Second)
		refreshJob.Run()

		ticker := time.NewTicker(cfg.GetRefreshInterval())
		defer ticker.Stop()
		for range ticker.C {
			refreshJob.Run()
		}
	}()

	// Handlers
	displayBoardHandler := handlers.NewDisplayBoardHandler(cacheService, courtService)
	scrapeHandler := handlers.NewScrapeHandler(orchestrator, cacheService, courtService, probe)
	causeListHandler := handlers.NewCauseListHandler(courtService)
	socketHandler := handlers.NewDisplayBoardSocketHandler(hub)

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")

	api.Get("/display-board", displayBoardHandler.GetDisplayBoard)
	api.Post("/display-board", displayBoardHandler.UpdateDisplayBoard)
	api.Get("/display-board/scrape", scrapeHandler.GetScrapeStatus)
	api.Post("/display-board/scrape", scrapeHandler.TriggerScrape)
	api.Post("/display-board/probe", scrapeHandler.ProbeBoardURL)
	api.Get("/cause-list", causeListHandler.GetCauseList)

	// Live push channel
	api.Use("/display-board/live", socketHandler.UpgradeRequired)
	api.Get("/display-board/live", websocket.New(socketHandler.Serve))

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
