package db

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/rotationsolver/config"
	dbmysql "github.com/kasuganosora/rotationsolver/db/mysql"
	dbsqlite "github.com/kasuganosora/rotationsolver/db/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ModeNone   = "none"
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// ErrDisabled is returned by Open when the journal database is turned off.
var ErrDisabled = errors.New("db: disabled")

// Open returns a *gorm.DB for the configured database mode. logger receives
// the MySQL driver's slow query and error reports and may be nil.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeNone, "":
		return nil, ErrDisabled
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(dbmysql.Config{
			DSN:     cfg.MySQLDSN,
			MaxOpen: cfg.MySQLMaxOpen,
			MaxIdle: cfg.MySQLMaxIdle,
			MaxLife: cfg.MySQLMaxLife,
		}, logger)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
