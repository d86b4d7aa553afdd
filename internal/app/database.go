package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/talkincode/smartpos/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDatabase opens the configured database. sqlite is the default and
// lives under workdir/data; postgres serves multi-register deployments.
func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := logger.Silent
	if zap.S().Level() == zap.DebugLevel {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(filepath.Join(workdir, "data", "smartpos.db"))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		panic(fmt.Errorf("open database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}
