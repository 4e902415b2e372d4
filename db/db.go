package db

import (
	"errors"
	"time"

	"github.com/Shkitskiy94/hw05-final/config"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens the database configured in the environment: MySQL, then
// PostgreSQL, then a local SQLite file.
func Init() error {
	var (
		database *gorm.DB
		err      error
	)
	switch {
	case config.MYSQL_DSN != "":
		log.Info("Using MySQL database")
		database, err = Open(mysql.Open(config.MYSQL_DSN))
	case config.POSTGRES_DSN != "":
		log.Info("Using PostgreSQL database")
		database, err = Open(postgres.Open(config.POSTGRES_DSN))
	case config.SQLITE_FILE != "":
		log.WithField("file", config.SQLITE_FILE).Info("Using SQLite database")
		database, err = OpenSQLite(config.SQLITE_FILE)
	default:
		err = errors.New("no database configured")
	}
	if err != nil {
		return err
	}
	Instance = database
	return nil
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if config.DEBUG_MODE {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 gormLogger,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
}

// OpenSQLite opens a SQLite database with foreign keys enabled. SQLite
// allows a single writer, so the pool is limited to one connection. This
// also keeps ":memory:" databases alive for the lifetime of the handle.
func OpenSQLite(file string) (*gorm.DB, error) {
	database, err := Open(sqlite.Open(file + "?_foreign_keys=on&_busy_timeout=5000"))
	if err != nil {
		return nil, err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return database, nil
}
