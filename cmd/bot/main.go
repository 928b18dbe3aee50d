package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashbackhelp/internal/admin"
	"cashbackhelp/internal/config"
	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/handler"
	"cashbackhelp/internal/middleware"
	"cashbackhelp/internal/repository"
	"cashbackhelp/internal/repository/bolt"
	"cashbackhelp/internal/repository/postgres"
	"cashbackhelp/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	bboltdb "go.etcd.io/bbolt"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Cashback Help Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	bankRepo := postgres.NewBankRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	cashbackRepo := postgres.NewCashbackRepo(db)
	favoriteRepo := postgres.NewFavoriteRepo(db)
	settingRepo := postgres.NewSettingRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)

	sessionRepo, closeSessions, err := newSessionRepo(cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	defer closeSessions()

	// Initialize services
	freeLimits := domain.Limits{
		MaxBanks:             cfg.Limits.FreeMaxBanks,
		MaxCategoriesPerBank: cfg.Limits.FreeMaxCategoriesPerBank,
	}

	sessions := service.NewSessionManager(sessionRepo, logger)
	settings := service.NewSettingsService(settingRepo, cfg.AdminUserIDs, logger)
	subscription := service.NewSubscriptionService(userRepo, cashbackRepo, favoriteRepo, freeLimits, logger)
	catalog := service.NewCatalogService(bankRepo, categoryRepo, logger)
	cashback := service.NewCashbackService(cashbackRepo, subscription, logger)
	favorites := service.NewFavoritesService(favoriteRepo, catalog, subscription, logger)
	cashbackFlow := service.NewCashbackFlowService(catalog, cashback, subscription, logger)
	favoritesFlow := service.NewFavoritesFlowService(catalog, favorites, subscription, logger)
	stats := service.NewStatsService(cashbackRepo, favoriteRepo, subscription)

	if err := settings.InitializeDefaultSettings(); err != nil {
		logger.Fatal("Failed to initialize default settings", zap.Error(err))
	}

	limiter := service.NewRateLimiter(cfg.RateLimit, logger)
	defer limiter.Stop()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	payment := service.NewPaymentService(paymentRepo, subscription, handler.NewStarsProvider(bot), cfg.Pro, logger)

	intentParser := service.NewRegexIntentParser(bankCodes(catalog, logger))
	search := service.NewSearchService(catalog, cashbackRepo, intentParser, logger)

	// Middleware order: rate limit first, then session, then service gating
	bot.Use(middleware.RateLimitMiddleware(limiter, subscription, logger))
	bot.Use(middleware.SessionMiddleware(sessions, logger))
	bot.Use(middleware.AccessMiddleware(settings, logger))

	h := handler.NewHandler(
		bot,
		userRepo,
		catalog, cashback, favorites,
		cashbackFlow, favoritesFlow,
		search, stats, settings, subscription, payment,
		logger,
	)
	h.RegisterHandlers(middleware.AdminOnly(settings, logger))

	logger.Info("Handlers registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Admin HTTP server is optional
	if cfg.AdminHTTP.Addr != "" {
		adminServer := admin.NewServer(cfg.AdminHTTP, settings, logger)
		go func() {
			if err := adminServer.Run(ctx); err != nil {
				logger.Error("Admin server failed", zap.Error(err))
			}
		}()
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// newSessionRepo picks the session store backend from configuration
func newSessionRepo(cfg *config.Config, db *sql.DB, logger *zap.Logger) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Store {
	case "bolt":
		boltDB, err := bboltdb.Open(cfg.Session.BoltPath, 0o600, &bboltdb.Options{Timeout: time.Second})
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		repo, err := bolt.NewSessionRepo(boltDB)
		if err != nil {
			boltDB.Close()
			return nil, nil, err
		}
		logger.Info("Using bolt session store", zap.String("path", cfg.Session.BoltPath))
		return repo, func() { boltDB.Close() }, nil
	default:
		logger.Info("Using postgres session store")
		return postgres.NewSessionRepo(db), func() {}, nil
	}
}

// bankCodes feeds the intent parser; a lookup failure just means no bank
// hints until restart
func bankCodes(catalog *service.CatalogService, logger *zap.Logger) []string {
	banks, err := catalog.GetAllBanks()
	if err != nil {
		logger.Warn("Failed to preload bank codes", zap.Error(err))
		return nil
	}
	codes := make([]string, 0, len(banks))
	for _, bank := range banks {
		codes = append(codes, bank.Code)
	}
	return codes
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
