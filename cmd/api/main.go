package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/config"
	"github.com/rkstores/billing-api/internal/infrastructure/database"
	"github.com/rkstores/billing-api/internal/infrastructure/repository"
	"github.com/rkstores/billing-api/internal/presentation/http/handler"
	"github.com/rkstores/billing-api/internal/presentation/http/routes"
	"github.com/rkstores/billing-api/pkg/logger"
	"github.com/rkstores/billing-api/pkg/notify"
	"github.com/rkstores/billing-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Log.Level)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		appLog.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		appLog.WithError(err).Warn("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	numberSeriesRepo := repository.NewNumberSeriesRepository(db)
	otpChallengeRepo := repository.NewOtpChallengeRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize notification sender
	var sender notify.Sender
	if cfg.Notify.Enabled {
		sender = notify.NewWhatsAppSender(notify.WhatsAppConfig{
			APIURL:  cfg.Notify.GatewayURL,
			Token:   cfg.Notify.Token,
			Timeout: cfg.Notify.Timeout,
		})
	} else {
		sender = notify.NewNullSender()
	}

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo)
	discountService := service.NewDiscountService(otpChallengeRepo, sender, appLog, cfg.Otp.TTL)
	numberingService := service.NewNumberingService(numberSeriesRepo, transactionRepo, appLog)
	postingService := service.NewPostingService(transactionRepo, numberingService, discountService, appLog)
	queryService := service.NewTransactionQueryService(transactionRepo)

	// Start the notification dispatcher
	dispatcher := service.NewOutboxDispatcher(outboxRepo, sender, appLog, cfg.Notify.DispatchInterval)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go dispatcher.Run(dispatcherCtx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Transaction: handler.NewTransactionHandler(postingService, queryService),
		Discount:    handler.NewDiscountHandler(discountService),
		Tenant:      handler.NewTenantHandler(tenantService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             appLog,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	appLog.WithField("port", port).Infof("Starting %s server", cfg.App.Name)

	if err := router.Run(":" + port); err != nil {
		appLog.WithError(err).Fatal("Failed to start server")
	}
}
