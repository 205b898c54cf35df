// Package logger builds the process-wide zap logger: JSON lines into a
// rotated file plus a human console echo.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	// Dir holds the rotated log files. Created on first write.
	Dir string
	// Level is one of debug, info, warn, error. Unrecognized means info.
	Level string
	// MaxSizeMB caps one file before rotation.
	MaxSizeMB int
	// MaxBackups caps how many rotated files are kept.
	MaxBackups int
	// Console additionally echoes warn-and-up to stderr in plain text.
	Console bool
}

func DefaultConfig() Config {
	return Config{
		Dir:        "log",
		Level:      "info",
		MaxSizeMB:  25,
		MaxBackups: 10,
		Console:    true,
	}
}

// New builds the logger. The returned close func flushes buffered entries and
// is safe to call on shutdown paths that never logged.
func New(cfg Config) (*zap.Logger, func()) {
	if cfg.Dir == "" {
		cfg.Dir = "log"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 25
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "erp-entry.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, parseLevel(cfg.Level)),
	}
	if cfg.Console {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.Lock(os.Stderr),
			zapcore.WarnLevel,
		))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return log, func() { _ = log.Sync() }
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
