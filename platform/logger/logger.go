// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithChat returns a logger with the chat ID attached.
func (l *Logger) WithChat(chatID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("chat_id", chatID)),
	}
}

// InboundMessage logs a received chat message.
func (l *Logger) InboundMessage(chatID, senderID, command string) {
	l.Info("inbound_message",
		slog.String("chat_id", chatID),
		slog.String("sender_id", senderID),
		slog.String("command", command),
	)
}

// SendError logs an outbound delivery failure. Sends are fire-and-forget, so
// this is the only record of the failure.
func (l *Logger) SendError(chatID string, err error) {
	l.Error("send_error",
		slog.String("chat_id", chatID),
		slog.String("error", err.Error()),
	)
}

// StoreError logs a durable storage failure.
func (l *Logger) StoreError(operation string, err error) {
	l.Error("store_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
