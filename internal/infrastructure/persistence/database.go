package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erp/printagent/internal/infrastructure/logger"
	"github.com/erp/printagent/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DatabaseConfig contains configuration for the journal database
type DatabaseConfig struct {
	// Path of the SQLite file, or ":memory:"
	Path string
	// LogLevel of SQL statements (default: warn)
	LogLevel gormlogger.LogLevel
	// Logger receives gorm's output
	Logger *zap.Logger
}

// Database holds the journal connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite journal and migrates its schema
func NewDatabase(cfg *DatabaseConfig) (*Database, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("journal database path is required")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	level := cfg.LogLevel
	if level == 0 {
		level = gormlogger.Warn
	}
	zl := cfg.Logger
	if zl == nil {
		zl = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 logger.NewGormLogger(zl, level, 0),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows a single writer; in-memory databases are per connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
