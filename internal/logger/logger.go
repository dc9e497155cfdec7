// Package logger builds the shared slog logger used by all three services.
package logger

import (
	"log/slog"
	"os"

	"github.com/account-authorizer/internal/config"
)

// NewLogger returns a JSON logger tagged with the service name. Unknown
// level strings fall back to info so a config typo never silences logging.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the cost when debugging
		AddSource: level == slog.LevelDebug,
	})

	log := slog.New(handler).With("service", cfg.Application.Name)
	log.Info("logger initialized", "level", level)
	return log
}
