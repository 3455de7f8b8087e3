package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"goldmart-backend/internal/auth"
	"goldmart-backend/internal/config"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/handler"
	"goldmart-backend/internal/metrics"
	"goldmart-backend/internal/repository/mongodb"
	"goldmart-backend/internal/service"
)

// App wires together all dependencies and runs the backend.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	client     *mongo.Client
	kafka      *event.KafkaPublisher
	httpServer *http.Server
}

// New connects to MongoDB, builds the dependency graph and prepares the
// HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	client, err := mongodb.Connect(ctx, mongodb.Config{
		URL:            cfg.MongoURL,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

	idxCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
	defer cancel()
	if err := mongodb.EnsureIndexes(idxCtx, db); err != nil {
		// Queries still work without the indexes, only slower.
		logger.Warn("ensure indexes failed", slog.String("error", err.Error()))
	}

	healthHandler := handler.NewHealthHandler()
	healthHandler.Register("mongodb", mongodb.Ping(client))

	a := &App{cfg: cfg, logger: logger, client: client}

	var publisher event.Publisher = event.Nop{}
	if cfg.KafkaEnabled {
		a.kafka = event.NewKafkaPublisher(event.DefaultKafkaConfig(cfg.KafkaBrokers), logger)
		publisher = a.kafka
		healthHandler.Register("kafka", a.kafka.Ping)
		logger.Info("kafka publisher initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	productService := service.NewProductService(mongodb.NewProductRepository(db), publisher, logger)
	rateService := service.NewRateService(mongodb.NewRateRepository(db), publisher, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Products:       productService,
		Rates:          rateService,
		Verifier:       auth.NewVerifier(cfg.JWTSecret),
		Health:         healthHandler,
		Metrics:        metrics.New(),
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Production:     cfg.IsProduction(),
	})

	a.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then closes Kafka and MongoDB.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Error("kafka publisher close error", slog.String("error", err.Error()))
		}
	}

	if err := a.client.Disconnect(ctx); err != nil {
		a.logger.Error("mongo disconnect error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
