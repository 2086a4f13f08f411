// Package logging provides a custom slog handler that integrates with the Event Log system.
// It forwards logs at WARN level and above to the database-backed Event Log for auditing.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the Event Log database.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to Event Log (default: WARN)
	attrs   []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeToEventLog uses a background context so the event is kept even if
// the request context is cancelled.
func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	fields := make(map[string]string, r.NumAttrs()+len(h.attrs))
	collect := func(a slog.Attr) bool {
		fields[a.Key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	category := fields["category"]
	if category == "" {
		category = inferCategory(r.Message)
	}
	requestURL := fields["path"]
	if requestURL == "" {
		requestURL = RequestPath(ctx)
	}
	delete(fields, "category")

	metadata := "{}"
	if len(fields) > 0 {
		if b, err := json.Marshal(fields); err == nil {
			metadata = string(b)
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:      slogLevelToEventLevel(r.Level),
		Category:   category,
		Message:    r.Message,
		Metadata:   metadata,
		RequestUrl: requestURL,
		CreatedAt:  r.Time.UTC(),
	})
}

func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from the message when none was attached.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "token"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "content") || strings.Contains(msg, "section"):
		return model.EventCategoryContent
	case strings.Contains(msg, "admin") || strings.Contains(msg, "user"):
		return model.EventCategoryUser
	case strings.Contains(msg, "image") || strings.Contains(msg, "upload"):
		return model.EventCategoryMedia
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

type requestPathKey struct{}

// WithRequestPath attaches the request path to ctx so records logged with
// that context carry it into the event log.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey{}, path)
}

// RequestPath returns the path stored by WithRequestPath.
func RequestPath(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(requestPathKey{}).(string)
	return path
}
