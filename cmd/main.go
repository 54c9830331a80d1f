package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/shotcall/internal/adapters/http/api"
	"github.com/okian/shotcall/internal/adapters/http/swagger"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	app "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/config"
	"github.com/okian/shotcall/pkg/logger"
	"github.com/okian/shotcall/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("shotcall: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFile(cfg.LogFile)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	_ = svc.Shutdown(shutdownCtx)

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the advisory service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	shots := shotdata.NewCache(cfg.ShotDataDir,
		shotdata.WithSampleLimit(cfg.SampleLimit),
		shotdata.WithLogger(log.Named("shotdata")),
	)
	opts := []app.Option{
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxReviewShots(cfg.MaxReviewShots),
		app.WithMaxReviews(cfg.MaxReviews),
		app.WithShotData(shots),
		app.WithModelFile(cfg.ModelFile),
		app.WithZonePriorWeight(cfg.ZonePriorWeight),
	}
	if cfg.PredictorURL != "" {
		opts = append(opts, app.WithPredictor(cfg.PredictorURL, cfg.PredictorTimeout, cfg.PredictorRetries))
	}
	return app.New(opts...)
}

// newHandler registers every route and wraps the mux in the middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	return api.Chain(mux,
		api.RequestID(),
		api.AccessLog(log.Named("http")),
		api.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.CORS(cfg.Origins()),
	)
}

// startSystemMetricsUpdater samples runtime metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.CollectSystem()
		}
	}
}

// startServiceMetricsUpdater publishes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics refreshes the queue and worker gauges; GetStats
// publishes them as a side effect.
func updateServiceMetrics(svc *app.Service) {
	_ = svc.GetStats()
}
