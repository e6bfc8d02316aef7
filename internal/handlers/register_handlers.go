package handlers

import (
	"github.com/brixal/wallet-backend/cmd/docs"
	"github.com/brixal/wallet-backend/internal/core/services"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/brixal/wallet-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svcs *services.Container,
	pool *pgxpool.Pool,
) {
	registerHomeRoutes(r, pool, cfg.EnableDBCheck)

	setupAPIV1Routes(r, cfg, svcs)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svcs *services.Container,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerWalletRoutes(v1, svcs.Ledger)
	registerTransferRoutes(v1, svcs.Transfers)
	registerTransactionRoutes(v1, svcs.Approvals)
	registerPendingFundRoutes(v1, svcs.PendingFunds)
	registerAdminRoutes(v1, svcs.AccountControl, svcs.Approvals)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
