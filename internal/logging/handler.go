// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into a rotating JSON log file next to the regular console output.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const requestPathKey contextKey = "logging.request_path"

// WithRequestPath returns a context whose log records carry the request path.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey, path)
}

// RequestPath returns the path stored by WithRequestPath.
func RequestPath(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	p, _ := ctx.Value(requestPathKey).(string)
	return p
}

// RotationConfig configures the rotating log file.
type RotationConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewRotatingWriter returns a size-rotated, compressed log file writer.
func NewRotatingWriter(cfg RotationConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

// FileHandler is a slog.Handler that wraps another handler and also writes
// records at or above a threshold as JSON to a file.
type FileHandler struct {
	inner slog.Handler
	file  slog.Handler
	level slog.Level // Minimum level written to the file (default: WARN)
}

// NewFileHandler creates a FileHandler writing WARN and above to w.
func NewFileHandler(inner slog.Handler, w io.Writer) *FileHandler {
	return NewFileHandlerWithLevel(inner, w, slog.LevelWarn)
}

// NewFileHandlerWithLevel creates a FileHandler with a custom minimum level.
func NewFileHandlerWithLevel(inner slog.Handler, w io.Writer, level slog.Level) *FileHandler {
	return &FileHandler{
		inner: inner,
		file:  slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *FileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *FileHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level < h.level {
		return nil
	}
	rec := r.Clone()
	if path := RequestPath(ctx); path != "" {
		rec.AddAttrs(slog.String("request_path", path))
	}
	return h.file.Handle(ctx, rec)
}

// WithAttrs implements slog.Handler.
func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FileHandler{
		inner: h.inner.WithAttrs(attrs),
		file:  h.file.WithAttrs(attrs),
		level: h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *FileHandler) WithGroup(name string) slog.Handler {
	return &FileHandler{
		inner: h.inner.WithGroup(name),
		file:  h.file.WithGroup(name),
		level: h.level,
	}
}
