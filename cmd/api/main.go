package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"marketplace-api/internal/client"
	"marketplace-api/internal/config"
	"marketplace-api/internal/logging"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/server"
	"marketplace-api/internal/service"
	"marketplace-api/internal/storage"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	db := client.InitMysqlClient(cfg.DatabaseURL)

	if cfg.Environment.Name == "development" {
		if err := repository.Seed(db); err != nil {
			log.Fatal("seed:", err)
		}
	}

	fileStore, err := storage.NewLocalFileStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentTypeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, engagementRepo, fileStore)
	cartService := service.NewCartService(db, orderRepo, productRepo, paymentRepo)
	checkoutService := service.NewCheckoutService(db, logger, orderRepo, productRepo, paymentRepo)
	paymentService := service.NewPaymentService(db, paymentRepo)
	engagementService := service.NewEngagementService(productRepo, engagementRepo)
	reportService := service.NewReportService(reportRepo, orderRepo, productRepo)
	profileService := service.NewProfileService(userRepo, paymentRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		cfg.Auth.JWTSecret,
		catalogService,
		cartService,
		checkoutService,
		paymentService,
		engagementService,
		reportService,
		profileService,
	)

	logger.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
