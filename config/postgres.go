package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"smrutimap/models/postgres"

	_ "github.com/lib/pq" // registers the driver the change feed listener uses
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSN builds the connection string from the environment. The same
// DSN feeds GORM and the lib/pq LISTEN connection.
func PostgresDSN() string {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	database := os.Getenv("POSTGRES_DATABASE")

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		user, password, host, port, database)
}

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM() (*gorm.DB, error) {
	verbose := os.Getenv("VERBOSE_POSTGRES")

	gormConfig := &gorm.Config{TranslateError: true}
	if verbose == "true" {
		newLogger := logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		)
		gormConfig.Logger = newLogger
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), gormConfig)

	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	// Get the underlying SQL DB object
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying SQL DB: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the database. Shared by main
// (behind the MIGRATE_POSTGRES flag) and by the sqlite-backed tests.
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.HistoricalImage{},
		postgres.User{},
		postgres.GameRoom{},
		postgres.RoomParticipant{},
		postgres.RoundScore{},
		postgres.ImagePool{})

	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Println("Database migrated successfully")

	return nil
}
