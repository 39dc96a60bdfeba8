package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/campaign-naming-server-go/internal/bootstrap"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/auth"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/campaign"
	"github.com/mo-amir99/campaign-naming-server-go/internal/http/routes"
	authmw "github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/internal/utils/jwt"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/asana"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/cache"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/database"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/health"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/iterable"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/jobs"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/logger"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/request"
	socketioserver "github.com/mo-amir99/campaign-naming-server-go/pkg/socketio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.ApplyDatabaseMigrations(db, cfg, appLogger); err != nil {
		appLogger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := bootstrap.EnsureDefaultAdmin(db, cfg.Admin, appLogger); err != nil {
		appLogger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}

	cacheClient := cache.New(ctx, cfg.Redis, appLogger)
	defer cacheClient.Close()

	signer := jwt.Signer{
		AccessSecret:  cfg.Auth.JWTSecret,
		RefreshSecret: cfg.Auth.JWTRefreshSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	}
	authMiddleware := authmw.Initialize(db, signer, appLogger)

	generator := naming.NewGenerator(naming.WithLocation(cfg.Naming.Location()))

	asanaClient := asana.NewClient(cfg.Asana, appLogger)
	if !asanaClient.Configured() {
		appLogger.Warn("asana integration not configured")
	}

	iterableClient := iterable.NewClient(cfg.Iterable)
	if !iterableClient.Configured() {
		appLogger.Warn("iterable integration not configured")
	}

	// Initialize Socket.IO server for live name previews
	socketIOServer, err := socketioserver.NewServer(authMiddleware, generator, appLogger)
	if err != nil {
		appLogger.Error("socket.io server initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer socketIOServer.Close()

	appLogger.Info("socket.io server initialized")

	campaignStore := campaign.NewStore(db)
	campaignService := campaign.NewService(campaign.Dependencies{
		Store:    campaignStore,
		Namer:    generator,
		Tasks:    asanaClient,
		Email:    iterableClient,
		Cache:    cacheClient,
		Notifier: socketIOServer,
		Logger:   appLogger,
	})

	var provider auth.Provider
	if google := auth.NewGoogleProvider(cfg.Google); google != nil {
		provider = google
	} else {
		appLogger.Info("google sign-in disabled")
	}
	authService := auth.NewService(auth.NewUserStore(db), signer, cacheClient, provider, cfg.Auth.AllowedEmailDomain, appLogger)

	if cfg.Jobs.Enabled {
		scheduler := jobs.NewScheduler(appLogger)

		scheduler.AddJob(
			jobs.NewStalePendingCampaignJob(campaignStore, cfg.Jobs.StaleCampaignAfter, appLogger),
			cfg.Jobs.Interval,
		)

		scheduler.AddJob(
			jobs.NewCachePurgeJob("asana_fields", asanaClient.FieldCache(), appLogger),
			time.Hour,
		)

		scheduler.Start()
		defer scheduler.Stop()
	}

	router := gin.New()

	// Mount Socket.IO handler FIRST before any middleware that could interfere
	// Socket.IO needs minimal middleware - just recovery and CORS
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/socket.io/*any", gin.WrapH(socketIOServer.GetHandler()))
	router.POST("/socket.io/*any", gin.WrapH(socketIOServer.GetHandler()))

	router.Use(middleware.RequestID())
	router.Use(middleware.Compression(middleware.BestSpeed))
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CacheControl())
	router.Use(middleware.RequestSizeLimit(1 * 1024 * 1024)) // 1MB
	router.Use(metrics.Middleware())
	router.Use(request.Handler(appLogger))

	// Rate limiting (100 requests per minute per IP), shared across replicas when Redis is set
	rateLimiter := middleware.NewRateLimiter(cacheClient, 100, time.Minute, appLogger)
	router.Use(rateLimiter.Middleware())

	routes.Register(router, routes.Dependencies{
		Config:      cfg,
		DB:          db,
		Logger:      appLogger,
		Auth:        authMiddleware,
		AuthService: authService,
		Campaigns:   campaignService,
		Tasks:       asanaClient,
		Email:       iterableClient,
		HealthChecks: map[string]health.Check{
			"database": health.DatabaseCheck(db),
			"cache":    cacheClient.Ping,
		},
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	appLogger.Info("server started successfully")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
