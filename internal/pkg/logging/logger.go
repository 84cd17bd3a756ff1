// Package logging builds the application's zap logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// New returns a JSON logger for production and a console logger otherwise.
// level is a zap level name ("debug", "info", ...); an empty or unknown value keeps
// the environment default.
func New(env, level string) (*zap.Logger, error) {
	var config zap.Config

	if IsProduction(env) {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		var parsed zapcore.Level
		if err := parsed.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err == nil {
			config.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// IsProduction accepts both "production" and "prod".
func IsProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == EnvProduction || env == "prod"
}
