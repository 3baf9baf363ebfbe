package handler

import (
	"context"
	"net/http"
	"time"

	"ecommerce/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the API can reach its backing stores, plus the depth
// of each dead-letter queue so stuck receipt/email jobs are visible without a
// Redis shell. Returns 503 when Postgres or Redis is unreachable; never
// exposes credentials or connection details.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		sano := true

		postgres := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "sin conexión"
			sano = false
		}

		estadoRedis := "ok"
		dlq := gin.H{}
		if err := rdb.Ping(ctx).Err(); err != nil {
			estadoRedis = "sin conexión"
			sano = false
		} else {
			for _, cola := range []string{worker.QueueRecibos, worker.QueueEmail} {
				if n, err := worker.PendientesEnDLQ(ctx, rdb, cola); err == nil {
					dlq[cola] = n
				}
			}
		}

		codigo := http.StatusOK
		if !sano {
			codigo = http.StatusServiceUnavailable
		}
		c.JSON(codigo, gin.H{
			"servicio": "ecommerce-backend",
			"postgres": postgres,
			"redis":    estadoRedis,
			"dlq":      dlq,
		})
	}
}
