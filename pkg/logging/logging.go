// Package logging builds the zap loggers used by the filekit commands.
package logging

import (
	"go.uber.org/zap"
)

// New returns a logger stamped with the application name and version.
// Debug mode switches to the human-readable development encoder at debug level.
func New(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample(), err
	}
	return logger, nil
}

// Setup builds a logger with New and installs it as the zap global.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	logger, err := New(debug, appName, appVersion)
	if err != nil {
		return logger, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
