package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/internal/api/handler"
	"github.com/oxtobyd/panelplanner/internal/api/router"
	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/metrics"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/database"
	applogger "github.com/oxtobyd/panelplanner/pkg/logger"
	"github.com/oxtobyd/panelplanner/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config/config.yaml)")
	flag.Parse()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting panel planner",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get underlying sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Redis (optional: without it there is no rate limiting and no shared holiday cache)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, continuing without it", zap.Error(err))
		rdb = nil
	}

	// 5. metrics and bank holidays
	m := metrics.New()
	holidays := newHolidayProvisioner(cfg, rdb, m, logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.Calendar.FeedTimeout)
	_ = holidays.Ensure(startCtx)
	cancelStart()

	policy, err := service.PolicyFromConfig(&cfg.Policy)
	if err != nil {
		logger.Fatal("invalid policy configuration", zap.Error(err))
	}

	// 6. dependency injection: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, holidays, policy, m, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, rdb, m, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 9. wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}

// newHolidayProvisioner chains gov.uk, the optional fallback file and the
// optional Redis store in front of the in-process cache.
func newHolidayProvisioner(cfg *config.Config, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *calendar.Provisioner {
	var source calendar.HolidaySource = calendar.NewGovUKSource(cfg.Calendar.HolidayFeedURL, cfg.Calendar.FeedTimeout)
	if cfg.Calendar.HolidayFallbackFile != "" {
		source = calendar.NewCompositeSource(source, calendar.NewFileSource(cfg.Calendar.HolidayFallbackFile), logger)
	}

	var store calendar.HolidayStore
	if rdb != nil {
		store = rdb
	}
	source = calendar.NewCachedSource(source, store, cfg.Calendar.HolidayCacheTTL, logger)

	p := calendar.NewProvisioner(source, calendar.NewBankHolidays(), cfg.Calendar.RetryAfter, logger)
	p.OnFetch = func(count int, err error) {
		m.ObserveHolidayFetch(err, count)
	}
	return p
}
