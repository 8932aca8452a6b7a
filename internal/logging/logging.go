// Package logging carries a zap SugaredLogger on the context so every
// component logs through the same configured instance.
package logging

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type loggerKey struct{}

var (
	defaultLogger     *zap.SugaredLogger
	defaultLoggerOnce sync.Once
)

// NewLogger builds a production or development SugaredLogger.
func NewLogger(development bool) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

// DefaultLogger returns the process-wide logger, configured once from the
// ORDSTORE_LOG_MODE environment variable.
func DefaultLogger() *zap.SugaredLogger {
	defaultLoggerOnce.Do(func() {
		development := strings.EqualFold(os.Getenv("ORDSTORE_LOG_MODE"), "development")
		defaultLogger = NewLogger(development)
	})
	return defaultLogger
}

// WithLogger stores the logger on the context.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored on the context, falling back to
// the default logger when none was attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return DefaultLogger()
}
