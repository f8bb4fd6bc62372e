/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Package log provides structured logging with OpenTelemetry integration for the interactor
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

type Level = slog.Level

const (
	LevelDebug Level = slog.LevelDebug
	LevelInfo  Level = slog.LevelInfo
	LevelWarn  Level = slog.LevelWarn
	LevelError Level = slog.LevelError
)

// ServiceName is used as instrumentation scope for the otel logs
const ServiceName = "atomic-interactor"

var levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}

// Global logger instance
var (
	loggerMu sync.RWMutex
	logger   *slog.Logger

	// OpenTelemetry integration
	otelHandler *otelslog.Handler
)

func init() {
	_ = Initialize(DefaultConfig())
}

// Config of the logging
type Config struct {
	Level        string `json:"level"`         // Log level (debug, info, warn, error)
	Format       string `json:"format"`        // Output format (console, json)
	UseTimestamp bool   `json:"use_timestamp"` // Include timestamp in logs
	UseColor     bool   `json:"use_color"`     // Use colors in console output when it's a terminal
	UseCaller    bool   `json:"use_caller"`    // Include caller information
	OtelEnabled  bool   `json:"otel_enabled"`  // Enable OpenTelemetry integration

	// Output is stdout if not set
	Output io.Writer `json:"-"`
}

// DefaultConfig returns default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:        "info",
		Format:       "console",
		UseTimestamp: true,
		UseColor:     true,
	}
}

func parseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", levelStr)
	}
}

// Initialize sets up the global logger with the given configuration
func Initialize(config *Config) error {
	level, err := parseLevel(config.Level)
	if err != nil {
		return err
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if config.UseCaller {
		opts.AddSource = true
		_, projectDir, _, ok := runtime.Caller(0)
		if !ok {
			return fmt.Errorf("unable to determine project root directory")
		}
		projectDir = filepath.Dir(filepath.Dir(filepath.Dir(projectDir)))
		opts.ReplaceAttr = func(_ /*groups*/ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					relPath, _ := filepath.Rel(projectDir, source.File)
					return slog.String(slog.SourceKey, relPath+":"+strconv.Itoa(source.Line))
				}
			}
			return a
		}
	}

	var handler slog.Handler
	switch config.Format {
	case "console", "":
		consoleHandler := NewConsoleHandler(output, opts)
		if !config.UseColor {
			consoleHandler.SetUseColor(false)
		}
		consoleHandler.SetUseTimestamp(config.UseTimestamp)
		handler = consoleHandler
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		return fmt.Errorf("invalid log format %q", config.Format)
	}

	loggerMu.Lock()
	logger = slog.New(handler)
	otelHandler = nil
	loggerMu.Unlock()

	if config.OtelEnabled {
		if err := SetupOtelIntegration(); err != nil {
			return fmt.Errorf("unable to setup otel for logging: %w", err)
		}
	}

	return nil
}

// SetupOtelIntegration duplicates the log records to the global otel logger provider
//
// Monitoring calls it when the otel logs export is enabled, it's safe to call it twice.
func SetupOtelIntegration() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if otelHandler == nil {
		otelHandler = otelslog.NewHandler(ServiceName)
		logger = slog.New(&multiHandler{
			handlers: []slog.Handler{logger.Handler(), otelHandler},
		})
	}
	return nil
}

// multiHandler combines multiple slog.Handler implementations
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var lastErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// GetLevel returns the lowest enabled logging level
func GetLevel() Level {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	for _, lvl := range levels {
		if logger.Handler().Enabled(context.Background(), lvl) {
			return lvl
		}
	}
	return LevelError
}

// WithFunc provides a way to identify package and function executed
// Empty values in the params are not allowed
func WithFunc(pack, fun string) *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if pack == "" || fun == "" {
		return nil
	}
	return logger.With("pack", pack, "func", fun).WithGroup(pack)
}
