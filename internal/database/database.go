package database

import (
	"fmt"
	"os"
	"time"

	"github.com/atelierhq/atelier/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection.
// DB_DRIVER=sqlite selects an embedded database for local development;
// the default is PostgreSQL via DATABASE_URL or DB_* components.
func Initialize() error {
	var dialector gorm.Dialector

	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := getEnvOrDefault("DB_PATH", "atelier.db")
		dialector = sqlite.Open(path)
	} else {
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			host := getEnvOrDefault("DB_HOST", "localhost")
			port := getEnvOrDefault("DB_PORT", "5432")
			user := getEnvOrDefault("DB_USER", "postgres")
			password := getEnvOrDefault("DB_PASSWORD", "")
			dbname := getEnvOrDefault("DB_NAME", "atelier")
			sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

			databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				host, port, user, password, dbname, sslmode)
		}
		dialector = postgres.Open(databaseURL)
	}

	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Blog{},
		&models.Project{},
		&models.Image{},
		&models.CodeExample{},
		&models.FAQ{},
		&models.BlogMetric{},
		&models.SearchHistory{},
		&models.SearchAnalytics{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if DB.Dialector.Name() == "postgres" {
		if err := createIndexes(); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	return nil
}

// createIndexes creates performance indexes beyond what AutoMigrate declares
func createIndexes() error {
	// Case-insensitive substring search on content fields
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_blogs_title_lower ON blogs (LOWER(title))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_projects_title_lower ON projects (LOWER(title))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_images_alt_lower ON images (LOWER(alt))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_tags_name_lower ON tags (LOWER(name))")

	// Published listing queries
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_blogs_published_at ON blogs (published, published_at DESC) WHERE published = true")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_projects_published_at ON projects (published, published_at DESC) WHERE published = true")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_blogs_views ON blogs (views DESC) WHERE published = true")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_projects_views ON projects (views DESC) WHERE published = true")

	// Search analytics read paths
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_search_histories_query_created ON search_histories (query, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_search_histories_session ON search_histories (session_id, query, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_search_histories_zero ON search_histories (created_at DESC) WHERE results = 0")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_search_analytics_count ON search_analytics (search_count DESC)")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
