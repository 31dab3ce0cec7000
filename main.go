package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smrutimap/config"
	_ "smrutimap/config/swagger"
	"smrutimap/middleware"
	"smrutimap/routes"
	"smrutimap/services/catalog"
	"smrutimap/services/imagepool"
	"smrutimap/services/redis"
	"smrutimap/services/rooms"
	"smrutimap/services/socket_io"
	socketio_types "smrutimap/services/socket_io/types"
	"smrutimap/services/storage"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// @title SmrutiMap API
// @version 1.0
// @description Gin-Gonic server for the SmrutiMap historical photo guessing game
// @host localhost:8080
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	repo := storage.NewRepository(gormDB)

	cat := catalog.New(repo)
	if err := cat.Refresh(ctx); err != nil {
		log.Fatalf("Error loading image catalog: %v", err)
	}
	if cat.Count() == 0 {
		log.Println("Warning: image catalog is empty, games cannot start until images are loaded")
	}

	pool := imagepool.New(imagepool.NewPostgresStore(repo), imagepool.NewRedisStore(redisClient), cat)
	roomsService := rooms.New(repo, cat, pool, storage.NewPgPublisher(gormDB))

	// The hub and the socket server push through the same room channels
	sio := &socket_io.MySocketServer{}
	hub := sync.NewHub(repo, redisClient, (*socketio_types.SocketServer)(sio), roomsService)

	r := gin.Default()
	middleware.SetUpMiddleware(r)
	sio.Start(r, gormDB, redisClient, roomsService, hub)
	routes.SetupRoutes(r, gormDB, redisClient, roomsService, pool, hub, cat)

	// Push is best-effort; a missing feed just leaves the reconciliation poll
	feed, err := storage.NewChangeFeed(config.PostgresDSN())
	if err != nil {
		log.Printf("Warning: change feed unavailable, relying on the reconciliation poll: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var events <-chan storage.ChangeEvent
		if feed != nil {
			defer feed.Close()
			events = feed.Events()
		}
		hub.Run(gctx, events)
		return nil
	})

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		if os.Getenv("USE_HTTPS") == "true" {
			port = "443"
		} else {
			port = "8080"
		}
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	g.Go(func() error {
		log.Printf("Server started on port %s", port)
		if os.Getenv("USE_HTTPS") == "true" {
			// SSL certification configuration for HTTPS
			certFile := os.Getenv("TLS_CERT_FILE")
			keyFile := os.Getenv("TLS_KEY_FILE")
			if err := srv.ListenAndServeTLS(certFile, keyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sio.Sio_server.Close(nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
