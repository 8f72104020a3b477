package handlers

import (
	"context"
	"net/http"

	"pulsefit/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HealthHandler reports store and Redis reachability; 503 when any is down.
func HealthHandler(storePing func(context.Context) error, redisClients func() []*redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.CheckHealth(c.Request.Context(), storePing, redisClients())
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "checks": status})
	}
}
