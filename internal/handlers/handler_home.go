package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// registerHomeRoutes wires the public root and health endpoints. The DB
// ping is optional so the health check stays cheap by default.
func registerHomeRoutes(r *gin.Engine, pool *pgxpool.Pool, enableDBCheck bool) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "wallet-backend"})
	})

	r.GET("/health", func(c *gin.Context) {
		if enableDBCheck && pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.String(http.StatusOK, "OK")
	})
}
