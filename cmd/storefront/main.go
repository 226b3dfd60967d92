package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/pkg/catalogapi"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("⚠️ Could not read .env file", slog.String("error", err.Error()))
	}

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Storage setup
	store, err := repository.NewStore(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the storage backend", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing storage", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage closed")
		}
	}()

	gateway := repository.NewGateway(store, cfg.Storage.KeyPrefix)
	catalogClient := catalogapi.NewClient(cfg.Catalog.BaseURL, catalogapi.NewHTTPClient(cfg.Catalog.Timeout))

	bus := events.NewBus()
	metrics.Subscribe(bus)

	var notifier *service.ReceiptNotifier
	if cfg.SendGrid.APIKey != "" {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = service.NewReceiptNotifier(emailService, 10*time.Second)
		notifier.Subscribe(bus)
	} else {
		slog.Info("SendGrid API key not set, order receipts are disabled")
	}

	storefront := service.NewStorefront(service.Dependencies{
		Gateway:      gateway,
		Catalog:      catalogClient,
		Bus:          bus,
		ProductLimit: cfg.Catalog.ProductLimit,
		ShippingFee:  cfg.Checkout.ShippingFee,
		BcryptCost:   cfg.Security.BcryptCost,
	})

	// a failed catalog load is retried by the next browse request
	if err := storefront.Init(ctx, cfg.Seed.DemoAccounts); err != nil {
		slog.Error("⚠️ Storefront started degraded", slog.String("error", err.Error()))
	}

	healthCheck, err := health.NewHealthHandler(cfg, &health.Endpoints{Store: store, Catalog: catalogClient})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storefront initialized", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := handlers.NewRouter(storefront)
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthCheck.Handler())

	// Middleware chaining, metrics reads the matched pattern so it wraps the mux directly
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(storefront)(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if notifier != nil {
		notifier.Wait()
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
