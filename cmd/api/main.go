package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sumanshop/internal/cart"
	"sumanshop/internal/config"
	"sumanshop/internal/database"
	"sumanshop/internal/handler"
	"sumanshop/internal/kvstore"
	"sumanshop/internal/proof"
	"sumanshop/internal/repository"
	"sumanshop/internal/router"
	"sumanshop/internal/service"
	"sumanshop/internal/session"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting sumanshop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run schema migrations when a migrations directory is configured
	if cfg.Database.MigrationsDir != "" {
		if err := database.Migrate(cfg.Database.ConnectionString(), cfg.Database.MigrationsDir, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the key-value store backing carts, sessions and the
	// local order fallback. Without a Redis address everything lives in
	// process memory, which suits tests and local development.
	var kv kvstore.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		kv = kvstore.NewRedisStore(client)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis key-value store")
	} else {
		kv = kvstore.NewMemoryStore()
		logger.Warn().Msg("REDIS_ADDR not set, using in-memory key-value store")
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	proofRepo := repository.NewProofRepository(pool, logger)

	// Initialize cart and session stores
	carts := cart.NewManager(kv, logger)
	sessions := session.NewStore(kv, logger)

	// Initialize the payment-proof uploader. A nil uploader degrades
	// proofs to synthetic local path references.
	var uploader proof.Uploader
	if cfg.S3.Enabled {
		uploader, err = proof.NewS3Uploader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 uploader, payment proofs will use local path references")
			uploader = nil
		}
	} else {
		logger.Info().Msg("S3 disabled, payment proofs will use local path references")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, orderRepo, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo,
		proofRepo,
		carts,
		uploader,
		kv,
		service.CheckoutConfig{AllowLocalFallback: cfg.Checkout.AllowLocalFallback},
		logger,
	)
	orderService := service.NewOrderService(
		orderRepo,
		kv,
		service.OrderConfig{AllowTerminalRevert: cfg.Checkout.AllowTerminalRevert},
		logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(carts, productService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, checkoutHandler, orderHandler, sessions, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received")

		// Give outstanding requests a deadline to complete
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
