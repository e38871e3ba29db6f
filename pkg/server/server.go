// Package server assembles the HTTP service from environment settings.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arnavshah/content-rota-go/pkg/auth"
	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/database"
	"github.com/arnavshah/content-rota-go/pkg/handlers"
	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/metrics"
	"github.com/arnavshah/content-rota-go/pkg/planner"
	"github.com/arnavshah/content-rota-go/pkg/schedule"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Options overrides the process-wide defaults, mainly for tests
type Options struct {
	// Registerer receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// BcryptCost defaults to auth.DefaultCost.
	BcryptCost int
}

// Service is an assembled, ready to serve application
type Service struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Planner *planner.Planner
}

// Close releases the database connection
func (s *Service) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// New opens the database, loads the config and schedule, bootstraps the
// admin user and wires the router
func New(ctx context.Context, s config.Settings, logger *slog.Logger, opts Options) (*Service, error) {
	logger = logging.OrNop(logger)
	if s.JWTSecret == "" || s.APIMasterSecret == "" {
		logger.Warn("JWT_SECRET or API_MASTER_SECRET is empty; tokens and keys are not secure")
	}

	db, err := database.Open(database.Config{DSN: s.DatabaseURL, Path: s.DataPath, Quiet: true})
	if err != nil {
		return nil, err
	}
	svc := &Service{DB: db}
	ok := false
	defer func() {
		if !ok {
			_ = svc.Close()
		}
	}()

	cost := opts.BcryptCost
	if cost == 0 {
		cost = auth.DefaultCost
	}
	created, err := auth.EnsureAdminExists(db, s.AdminUsername, s.AdminPassword, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	if created {
		logger.Info("default admin user created", "username", s.AdminUsername)
	}

	cfg, err := config.Load(nil, s.ConfigPath)
	if err != nil {
		return nil, err
	}

	var repo schedule.Repository
	backend := strings.ToLower(s.ScheduleBackend)
	switch backend {
	case "", "file":
		backend = "file"
		repo = schedule.NewFileRepository(nil, s.SchedulePath)
	case "db":
		repo = schedule.NewDBRepository(db)
	default:
		return nil, fmt.Errorf("%w: unknown SCHEDULE_BACKEND %q", scheduler.ErrConfig, s.ScheduleBackend)
	}

	rec, err := metrics.NewPrometheus(opts.Registerer, "rota")
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	p, err := planner.New(ctx, planner.Options{
		Config:     cfg,
		Repo:       repo,
		Backend:    backend,
		MonthlyCap: s.MonthlyCap,
		Logger:     logger,
		Metrics:    rec,
	})
	if err != nil {
		return nil, err
	}

	h := &handlers.Handler{
		DB:      db,
		Planner: p,
		Auth:    auth.New(s.JWTSecret, s.APIMasterSecret, 0),
		Logger:  logger,
	}
	svc.Router = handlers.NewRouter(h, nil)
	svc.Planner = p
	ok = true
	return svc, nil
}
