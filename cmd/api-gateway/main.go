package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Generates weekly session timetables for scheduling periods
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()

	var lease service.GenerationLease = service.NewLocalGenerationLease()
	if redisClient != nil {
		lease = service.NewRedisGenerationLease(cacheRepo, cfg.Scheduler.LeaseTTL, logr)
	}

	sessionRepo := repository.NewSessionRepository(db)
	generator := service.NewScheduleGeneratorService(
		repository.NewSchedulingPeriodRepository(db),
		repository.NewCourseRepository(db),
		repository.NewTimeSlotRepository(db),
		repository.NewClassroomRepository(db),
		repository.NewLecturerRepository(db),
		sessionRepo,
		repository.NewPeriodAssignmentRepository(db),
		db,
		lease,
		metrics,
		validate,
		logr,
		service.ScheduleGeneratorConfig{
			MaxAttemptsPerCourseWeek: cfg.Scheduler.MaxAttempts,
			RandomSeed:               cfg.Scheduler.RandomSeed,
		},
	)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.JobResultTTL, logr, redisClient != nil)
	jobSvc := service.NewGenerationJobService(generator, cacheSvc, metrics, validate, logr, cfg.Scheduler.JobResultTTL)
	queue := jobs.NewQueue("schedule-generation", jobSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Scheduler.JobWorkers,
		BufferSize: cfg.Scheduler.JobQueueSize,
		MaxRetries: 1,
		RetryDelay: 2 * time.Second,
		OnGiveUp:   jobSvc.GiveUp,
		Logger:     logr,
	})
	jobSvc.AttachQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	exportSvc := service.NewTimetableExportService(generator, cfg.Export.MaxRows, logr)

	router := newRouter(cfg, logr, routerDeps{
		db:        db,
		redis:     redisClient,
		metrics:   metrics,
		tokens:    service.NewTokenService(cfg.JWT.Secret),
		scheduler: handler.NewScheduleGeneratorHandler(generator, jobSvc, exportSvc, dto.GenerateScheduleRequest{
			SessionsPerWeek:  cfg.Scheduler.SessionsPerWeek,
			MaxDailySessions: cfg.Scheduler.MaxDailySessions,
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routerDeps struct {
	db        *sqlx.DB
	redis     *redis.Client
	metrics   *service.MetricsService
	tokens    *service.TokenService
	scheduler *handler.ScheduleGeneratorHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics))

	checks := map[string]handler.Pinger{"postgres": deps.db}
	if deps.redis != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return deps.redis.Ping(ctx).Err()
		})
	}
	metricsHandler := handler.NewMetricsHandler(deps.metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(
		internalmiddleware.JWT(deps.tokens),
		internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
	)
	limited := internalmiddleware.RateLimit(internalmiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	periods := api.Group("/scheduling-periods/:id")
	periods.POST("/generate", limited, deps.scheduler.Generate)
	periods.POST("/generate/async", limited, deps.scheduler.GenerateAsync)
	periods.GET("/sessions", deps.scheduler.Sessions)
	periods.DELETE("/sessions", deps.scheduler.Reset)
	periods.GET("/export", deps.scheduler.Export)
	api.GET("/scheduling-jobs/:jobId", deps.scheduler.JobStatus)

	return r
}
