package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/linskybing/nephra/internal/config"
	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/domain/project"
	"github.com/linskybing/nephra/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database named by DATABASE_URL, or the DB_* settings when it
// is empty. sqlite:// URLs select the embedded driver for local work.
func Init() {
	dialector, err := Dialector(config.DatabaseURL)
	if err != nil {
		log.Fatal("Invalid database configuration: ", err)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{Logger: newLogger()})
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	log.Println("Database connected")
}

// Dialector picks the gorm driver for a database URL.
func Dialector(databaseURL string) (gorm.Dialector, error) {
	switch {
	case databaseURL == "":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.DbHost,
			config.DbPort,
			config.DbUser,
			config.DbPassword,
			config.DbName,
		)
		return postgres.Open(dsn), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	}
	return nil, fmt.Errorf("unsupported database URL format: %s", databaseURL)
}

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&project.Project{},
		&repository.ProposalRow{},
		&repository.RequestRow{},
		&audit.AuditLog{},
	)
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}

func newLogger() logger.Interface {
	// In production, suppress SQL logs unless DEBUG_SQL=true.
	level := logger.Info
	if config.Environment == "production" && !config.DebugSQL {
		level = logger.Warn
	}
	return logger.New(
		log.New(config.LogWriter, "\r\n", log.LstdFlags),
		logger.Config{LogLevel: level},
	)
}
