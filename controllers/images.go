package controllers

import (
	"net/http"
	"strconv"

	game_constants "smrutimap/constants/game"
	"smrutimap/middleware"
	"smrutimap/services/imagepool"

	"github.com/gin-gonic/gin"
)

// @Summary Draw the next image from the caller's pool
// @Description Hands out one catalog image the caller has not seen this pool cycle. An exhausted pool silently refreshes with the full catalog.
// @Tags images
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Success 200 {object} postgres.HistoricalImage
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /images/next [get]
func NextImage(pool *imagepool.Allocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		image, err := pool.NextImage(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not draw an image"})
			return
		}
		if image == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image catalog is empty"})
			return
		}
		c.JSON(http.StatusOK, image)
	}
}

// @Summary Draw a batch of images for a game
// @Description Draws count distinct images from the caller's pool in one atomic update. Returns fewer than count only when the catalog itself is smaller.
// @Tags images
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Param count query int false "How many images, defaults to 5, capped at 20"
// @Success 200 {array} postgres.HistoricalImage
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /images/game [get]
func GameImages(pool *imagepool.Allocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		count := game_constants.DefaultTotalRounds
		if raw := c.Query("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
				return
			}
			count = n
		}
		if count > game_constants.MaxTotalRounds {
			count = game_constants.MaxTotalRounds
		}

		images, err := pool.GameImages(c.Request.Context(), id, count)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not draw images"})
			return
		}
		c.JSON(http.StatusOK, images)
	}
}

// @Summary Reset the caller's image pool
// @Description Destroys the pool so the next draw reshuffles the full catalog.
// @Tags images
// @Produce json
// @Param Authorization header string false "Bearer JWT token (guests use their session cookie)"
// @Success 200 {object} object{message=string}
// @Failure 500 {object} object{error=string}
// @Router /images/pool/reset [post]
func ResetPool(pool *imagepool.Allocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.RequestIdentity(c)

		if err := pool.Reset(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reset the pool"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pool reset"})
	}
}
