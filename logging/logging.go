// Package logging builds the process logger: a console core plus an
// optional rotated JSON file core.
package logging

import (
	"os"

	"github.com/kasuganosora/rotationsolver/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger from cfg writing the console core to stderr. debug
// selects the development encoder settings and debug level when no level
// is configured.
func New(cfg config.LogConfig, debug bool) (*zap.Logger, error) {
	return build(cfg, debug, zapcore.Lock(os.Stderr))
}

func build(cfg config.LogConfig, debug bool, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format, debug), console, level)}
	if cfg.File != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json", false), w, level))
	}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if debug {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...).Named("rotationsolver"), nil
}

func encoder(format string, debug bool) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	if debug {
		ec = zap.NewDevelopmentEncoderConfig()
	}
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	if format == "json" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if debug {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}
