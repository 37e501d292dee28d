package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "pinax-social-backend/internal/api/http"
	"pinax-social-backend/internal/app"
	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/migrator"
	"pinax-social-backend/internal/plugins"
)

const (
	healthCheckInterval = 15 * time.Second
	shutdownTimeout     = 20 * time.Second
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exiting.
func run() int {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not apply database migrations on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Pinax backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Printf("Failed to initialize sentry: %v", err)
			return 1
		}
		defer sentry.Flush(2 * time.Second)
		logger.Info("Error reporting enabled", "environment", cfg.Sentry.Environment)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*skipMigrations {
		if err := migrator.Up(cfg.GetDatabaseConnectionString()); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			return 1
		}
	}

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	a, err := app.New(ctx, cfg, db)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		return 1
	}
	defer a.Close()

	if cfg.Plugins.Watch {
		startPluginWatcher(ctx, a)
	}

	router := httpapi.NewRouter(a.Services, a.Tokens)
	var handler http.Handler = router
	if cfg.Sentry.DSN != "" {
		handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(router)
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	healthServer, grpcServer, err := startHealthServer(cfg.GetHealthAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetHealthAddress())
		return 1
	}
	go watchDatabase(ctx, db, healthServer)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped")
	return 0
}

// startHealthServer serves the gRPC health protocol and reflection on addr.
func startHealthServer(addr string) (*health.Server, *grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	go func() {
		logger.Info("gRPC health server listening", "address", addr)
		if err := s.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC health", "error", err)
		}
	}()
	return hs, s, nil
}

// watchDatabase flips the overall health status with database reachability.
func watchDatabase(ctx context.Context, db *sql.DB, hs *health.Server) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("Database health check failed", "error", err)
			hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return
		}
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	check()
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// startPluginWatcher runs an initial sync and re-syncs whenever manifests change.
func startPluginWatcher(ctx context.Context, a *app.App) {
	syncNow := func(ctx context.Context) {
		report, err := a.Syncer.Run(ctx, a.Config.Plugins, plugins.Options{})
		if err != nil {
			logger.Error("Plugin sync failed", "error", err)
			return
		}
		if report.HasChanges() {
			logger.Info("Plugins synchronized", "report", report.String())
		}
	}
	syncNow(ctx)

	w := plugins.NewWatcher(a.Config.Plugins.ManifestDir, time.Duration(a.Config.Plugins.DebounceMillis)*time.Millisecond, syncNow)
	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("Plugin watcher stopped", "error", err)
		}
	}()
}
