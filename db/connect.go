package db

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

// Connect opens the Postgres store and migrates the schema. DB_URL wins when
// set; otherwise the DSN is assembled from the individual DB_* variables.
func Connect(log *zap.SugaredLogger) (Database, error) {
	var dsn string

	dbURL := os.Getenv("DB_URL")
	if dbURL != "" {
		dsn = dbURL

		// Hosted Postgres URLs usually require SSL; add it when missing.
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}

		log.Info("connecting to database using DB_URL")
	} else {
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")

		if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
			return nil, fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
		}

		sslMode := "require"
		if dbHost == "localhost" || dbHost == "127.0.0.1" {
			sslMode = "disable"
		}

		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbHost, dbUser, dbPassword, dbName, dbPort, sslMode)
		log.Infow("connecting to database using individual parameters", "sslmode", sslMode)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(0)

	log.Info("database connection established")

	if err := gormDB.AutoMigrate(&entities.Reading{}, &entities.Setpoint{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormDatabase{DB: gormDB}, nil
}
