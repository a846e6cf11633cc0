package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/infra"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks the store, the store breaker and (when configured) Redis; never
// exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{
			"db":      dbStatus,
			"dialect": db.Dialector.Name(),
		}

		breakerState := infra.CBClosed
		if breaker != nil {
			breakerState = breaker.State()
		}
		body["store_breaker"] = breakerState.String()

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueLowStock); err == nil {
				body["dead_letters"] = n
			}
		}
		body["redis"] = redisStatus

		// Redis only carries alerts; losing it does not stop receiving or selling.
		status := http.StatusOK
		if dbStatus != "connected" || breakerState == infra.CBOpen {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = status == http.StatusOK

		c.JSON(status, body)
	}
}
