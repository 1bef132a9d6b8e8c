// Package db opens the database backing the store
package db

import (
	"errors"
	"fmt"
	"os"

	"gamedash/api/internal/storage"
	"gamedash/api/pkg/util"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New builds the store selected by storage.type. The memory store keeps
// everything in process and loses it on restart
func New() (storage.Store, error) {
	kind := viper.GetString("storage.type")
	dsn := viper.GetString("storage.dsn")

	var dialector gorm.Dialector
	switch kind {
	case "memory":
		zap.L().Warn("Using the in-memory store, data won't survive a restart")
		return storage.NewMemory(), nil
	case "sqlite":
		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() {
			if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", dsn)
			}
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown storage type %q", kind)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", kind, err)
	}

	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return storage.NewGorm(db), nil
}
