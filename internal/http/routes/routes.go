package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/auth"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/campaign"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/integration"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/health"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// Dependencies carries everything the feature routes are built from.
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	Logger       *slog.Logger
	Auth         *middleware.AuthMiddleware
	AuthService  *auth.Service
	Campaigns    *campaign.Service
	Tasks        integration.TaskClient
	Email        integration.EmailClient
	HealthChecks map[string]health.Check
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	logger := deps.Logger

	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(deps.DB, logger, deps.HealthChecks)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Database stats endpoint (protected in production)
	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	authenticated := deps.Auth.RequireAuth()
	adminOnly := deps.Auth.RequireRoles(types.UserRoleAdmin)
	orgOnly := deps.Auth.RequireEmailDomain(cfg.Auth.AllowedEmailDomain)

	authHandler := auth.NewHandler(deps.AuthService, logger)
	auth.RegisterRoutes(api, authHandler, authenticated)

	userHandler := user.NewHandler(user.NewStore(deps.DB), logger)
	user.RegisterRoutes(api, userHandler, adminOnly, authenticated)

	campaignHandler := campaign.NewHandler(deps.Campaigns, logger)
	campaign.RegisterRoutes(api, campaignHandler, authenticated)

	integrationHandler := integration.NewHandler(deps.Tasks, deps.Email, cfg.Asana.ChatURL, logger)
	integration.RegisterRoutes(api, integrationHandler, orgOnly)
}
