package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Arianguy/Banko-sub000/internal/api"
	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/config"
	"github.com/Arianguy/Banko-sub000/internal/database"
	"github.com/Arianguy/Banko-sub000/internal/pricefeed"
	"github.com/Arianguy/Banko-sub000/internal/repository"
	"github.com/Arianguy/Banko-sub000/internal/secrets"
	"github.com/Arianguy/Banko-sub000/internal/service"
)

// feedTokenKey is the settings-table key holding the price feed credential.
const feedTokenKey = "price_feed_token"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	instrumentRepo := repository.NewInstrumentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	realizationRepo := repository.NewRealizationRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	feedClient := buildFeedClient(cfg, settingsRepo)

	systemService := service.NewSystemService(db)
	// Create services
	instrumentService := service.NewInstrumentService(
		instrumentRepo,
		feedClient,
	)
	transactionService := service.NewTransactionService(
		transactionRepo,
		realizationRepo,
		instrumentRepo,
	)
	holdingService := service.NewHoldingService(
		transactionService,
		instrumentRepo,
	)
	portfolioService := service.NewPortfolioService(
		holdingService,
		realizationRepo,
		dividendRepo,
	)
	dividendService := service.NewDividendService(
		dividendRepo,
		instrumentRepo,
		holdingService,
	)

	// Periodic sweep: qualified entitlements whose payment date has passed
	// move to received without waiting for an explicit evaluate call.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Dividend.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		advanced, err := dividendService.Sweep(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("Dividend sweep failed: %v", err)
			return
		}
		if advanced > 0 {
			log.Printf("Dividend sweep advanced %d entitlement(s)", advanced)
		}
	}); err != nil {
		log.Fatalf("Invalid dividend sweep schedule %q: %v", cfg.Dividend.SweepSchedule, err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(systemService, instrumentService, transactionService, holdingService, portfolioService, dividendService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Let an in-flight sweep finish before closing the database.
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// buildFeedClient assembles the price feed client from configuration and the
// stored credential. The token lives in the settings table, fernet-encrypted
// when a key is configured; a missing token just means unauthenticated feed
// requests.
func buildFeedClient(cfg *config.Config, settingsRepo *repository.SettingsRepository) pricefeed.Client {
	token, encrypted, err := settingsRepo.Get(feedTokenKey)
	if err != nil && !errors.Is(err, apperrors.ErrSettingNotFound) {
		log.Printf("Failed to read price feed token: %v", err)
	}

	if encrypted {
		if cfg.Secrets.FernetKey == "" {
			log.Printf("Price feed token is encrypted but FERNET_KEY is not set; ignoring token")
			token = ""
		} else {
			vault, err := secrets.NewVault(cfg.Secrets.FernetKey)
			if err != nil {
				log.Fatalf("Failed to initialize secrets vault: %v", err)
			}
			if token, err = vault.Decrypt(token); err != nil {
				log.Fatalf("Failed to decrypt price feed token: %v", err)
			}
		}
	}

	return pricefeed.NewFeedClient(cfg.PriceFeed.BaseURL, token)
}
