package routes

import (
	"smrutimap/controllers"
	"smrutimap/middleware"
	"smrutimap/services/catalog"
	"smrutimap/services/imagepool"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	"smrutimap/services/sync"
	utils "smrutimap/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	roomsService *rooms.Service, pool *imagepool.Allocator, hub *sync.Hub, cat *catalog.Service) {

	router.Use(utils.Logger())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)
	api.GET("/health", controllers.Health(db, redisClient, cat))

	auth := api.Group("/auth")
	{
		auth.POST("/signup", controllers.SignUp(db))
		auth.POST("/login", controllers.Login(db))
		auth.GET("/guest", controllers.GuestSession())

		// Registered accounts only; a guest session is not enough here
		auth.GET("/me", middleware.AuthRequired, controllers.Me(db))
	}

	// Game surface: registered users and guests alike, anonymous rejected
	game := api.Group("/")
	game.Use(middleware.IdentityRequired())
	{
		images := game.Group("/images")
		{
			images.GET("/next", controllers.NextImage(pool))
			images.GET("/game", controllers.GameImages(pool))
			images.POST("/pool/reset", controllers.ResetPool(pool))
		}

		roomsGroup := game.Group("/rooms")
		{
			roomsGroup.POST("", controllers.CreateRoom(roomsService))
			roomsGroup.GET("/:code", controllers.GetRoom(hub))
			roomsGroup.POST("/:code/join", controllers.JoinRoom(roomsService))
			roomsGroup.POST("/:code/start", controllers.StartRoom(roomsService))
			roomsGroup.POST("/:code/guess", controllers.SubmitRoomGuess(roomsService))
			roomsGroup.POST("/:code/advance", controllers.AdvanceRoom(roomsService))
			roomsGroup.POST("/:code/leave", controllers.LeaveRoom(roomsService))
			roomsGroup.GET("/:code/leaderboard", controllers.RoomLeaderboard(roomsService))
			roomsGroup.GET("/:code/scores/:round", controllers.RoomRoundScores(roomsService))
		}

		solo := game.Group("/solo")
		{
			solo.POST("/start", controllers.StartSolo(roomsService))
			solo.POST("/:code/guess", controllers.SoloGuess(roomsService))
			solo.POST("/:code/next", controllers.SoloNext(roomsService))
			solo.GET("/:code/summary", controllers.SoloSummary(roomsService))
		}

		game.GET("/daily/leaderboard", controllers.DailyLeaderboard(roomsService))
	}
}
