package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger writes human-readable logs to stdout and JSON logs to a
// rotating file, and installs the result as the global logger.
func SetupLogger(cfg LogConfig) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}

	if cfg.File != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.File), 0o755)
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
