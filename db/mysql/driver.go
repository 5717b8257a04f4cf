package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDSN is returned by Open when no DSN is configured.
var ErrNoDSN = errors.New("mysql: dsn is empty")

// Pool defaults applied to non-positive settings.
const (
	DefaultMaxOpen = 10
	DefaultMaxIdle = 5
	DefaultMaxLife = time.Hour

	slowQuery   = 200 * time.Millisecond
	pingTimeout = 5 * time.Second
)

// Config holds the journal connection settings.
type Config struct {
	DSN     string
	MaxOpen int
	MaxIdle int
	MaxLife time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxOpen <= 0 {
		c.MaxOpen = DefaultMaxOpen
	}
	if c.MaxIdle <= 0 {
		c.MaxIdle = DefaultMaxIdle
	}
	c.MaxIdle = min(c.MaxIdle, c.MaxOpen)
	if c.MaxLife <= 0 {
		c.MaxLife = DefaultMaxLife
	}
	return c
}

// Open connects to MySQL and verifies the connection. The DSN must ask for
// parseTime so journal timestamps decode. Slow queries and errors are
// reported through log.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	parsed, err := mysqldriver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse dsn: %w", err)
	}
	if !parsed.ParseTime {
		return nil, errors.New("mysql: dsn must set parseTime=true")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{Logger: gormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("mysql: open %s/%s: %w", parsed.Addr, parsed.DBName, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.MaxLife)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql: ping %s: %w", parsed.Addr, err)
	}
	log.Info("mysql journal connected",
		zap.String("addr", parsed.Addr),
		zap.String("db", parsed.DBName),
		zap.Int("max_open", cfg.MaxOpen))
	return db, nil
}

func gormLogger(log *zap.Logger) logger.Interface {
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
