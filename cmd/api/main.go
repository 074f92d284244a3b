package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/config"
	"github.com/yourusername/survey-api/internal/handler"
	"github.com/yourusername/survey-api/internal/middleware"
	pgRepo "github.com/yourusername/survey-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/survey-api/internal/repository/redis"
	"github.com/yourusername/survey-api/internal/service"
	"github.com/yourusername/survey-api/pkg/auth"
	"github.com/yourusername/survey-api/pkg/database"
	"github.com/yourusername/survey-api/pkg/logger"
	"github.com/yourusername/survey-api/pkg/monitoring"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.Server.Mode)

	log := logger.New(cfg.Logging, cfg.Server.Mode)
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.String("path", configPath), zap.String("mode", cfg.Server.Mode))

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL и миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return err
	}
	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.MigrateDB(db, database.DefaultMigrationsSource, log); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis: кеш карточек опросов, Idempotency-Key и rate limit
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("connected to redis", zap.String("mode", cfg.Redis.Mode))

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient, cfg.Survey.CacheNamespace)
	if err != nil {
		return err
	}

	// Репозитории и сервисы
	deps := service.Deps{
		UoW:       pgRepo.NewUnitOfWork(db),
		Repos:     pgRepo.NewRepositories(db),
		Cache:     cacheRepo,
		Logger:    log,
		TxTimeout: cfg.Survey.TxTimeout,
		CacheTTL:  cfg.Survey.CacheTTL,
	}
	surveyService, err := service.NewSurveyService(deps)
	if err != nil {
		return err
	}
	questionService, err := service.NewQuestionService(deps)
	if err != nil {
		return err
	}
	optionService, err := service.NewOptionService(deps)
	if err != nil {
		return err
	}
	answerService, err := service.NewAnswerService(deps)
	if err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.Issuer)
	if err != nil {
		return err
	}
	authService, err := service.NewAuthService(pgRepo.NewUserRepo(db), jwtService, log)
	if err != nil {
		return err
	}

	monitoring.Init()
	router := newRouter(cfg, log)
	handler.Routes{
		Auth:          handler.NewAuthHandler(authService, log),
		Surveys:       handler.NewSurveyHandler(surveyService, log),
		Questions:     handler.NewQuestionHandler(questionService, log),
		Options:       handler.NewOptionHandler(optionService, log),
		Answers:       handler.NewAnswerHandler(answerService, log),
		RequireAuth:   middleware.NewAuthMiddleware(jwtService, log).RequireAuth(),
		Idempotency:   middleware.Idempotency(cacheRepo, cfg.Survey.IdempotencyTTL, log),
		AuthRateLimit: middleware.NewRateLimiter(redisClient, cfg.Survey.CacheNamespace, log).Limit(cfg.RateLimit),
	}.Register(router)

	router.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

func newRouter(cfg *config.Config, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// В release не доверяем прокси-заголовкам, в разработке доверяем localhost
	trusted := []string{"127.0.0.1", "::1"}
	if cfg.Server.Mode == gin.ReleaseMode {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		monitoring.MetricsMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.IdempotencyHeader, middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	router.GET("/metrics", monitoring.PrometheusHandler())
	return router
}
