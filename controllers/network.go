package controllers

import (
	"net/http"
	"time"

	"smrutimap/services/catalog"
	"smrutimap/services/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

// @Summary Dependency health check
// @Description Pings Postgres and Redis and reports the image catalog's size and age. 503 when either store is unreachable; the game store is mandatory, presence is reported but optional.
// @Tags test
// @Produce json
// @Success 200 {object} object{postgres=string,redis=string,catalog_images=int,catalog_loaded_at=string}
// @Failure 503 {object} object{postgres=string,redis=string,catalog_images=int,catalog_loaded_at=string}
// @Router /health [get]
func Health(db *gorm.DB, redisClient *redis.RedisClient, cat *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		pgState, redisState := "up", "up"

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			pgState = "down"
			status = http.StatusServiceUnavailable
		}

		if redisClient == nil {
			redisState = "disabled"
		} else if err := redisClient.Ping(c.Request.Context()); err != nil {
			redisState = "down"
		}

		c.JSON(status, gin.H{
			"postgres":          pgState,
			"redis":             redisState,
			"catalog_images":    cat.Count(),
			"catalog_loaded_at": cat.LoadedAt().UTC().Format(time.RFC3339),
		})
	}
}
