// Package logger builds the application zap logger from config.
package logger

import (
	"fmt"

	"github.com/sainam-co/jobtrack-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger configured for the current environment.
// Development uses a human-readable console encoder, everything else
// emits JSON for log aggregation.
func New(cfg *config.LoggingConfig, appName, environment string) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "console" || environment == "development" || environment == "local" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appName,
		"environment": environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
