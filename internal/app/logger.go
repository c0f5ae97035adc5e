package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log formats accepted by Config.LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// parseLogLevel maps a level name such as "debug" or "WARN" onto a slog level.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", s)
	}
	return level, nil
}

func parseLogFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case LogFormatText, LogFormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format %q: must be 'text' or 'json'", s)
	}
}

// newLogger builds an isolated logger for cfg writing to w. cfg has been
// through NewConfig, so its level and format parse.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, _ := parseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
