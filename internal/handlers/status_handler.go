package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusHandler trata GET /status.
func StatusHandler(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "online",
			"timestamp":   time.Now().UTC().Format(timeLayout),
			"environment": environment,
		})
	}
}

// Pinger verifica a conectividade com o document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler trata GET /health. Sem pinger, responde apenas que o processo está de pé.
func HealthHandler(pinger Pinger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logger.Error("Falha no ping do document store durante o health check", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "document store unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "docstore": "connected"})
	}
}
