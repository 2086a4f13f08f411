// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the audit trail written by auth, content, media
// and admin-management operations.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/store"
)

// EventService provides event logging functionality.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry. userID may be empty.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, userID, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullString
	if userID != "" {
		nullUserID = sql.NullString{String: userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "event", message)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, ipAddress, metadata)
}

// LogContentEvent logs a content edit.
func (s *EventService) LogContentEvent(ctx context.Context, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryContent, message, userID, ipAddress, metadata)
}

// LogUserEvent logs a role change.
func (s *EventService) LogUserEvent(ctx context.Context, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryUser, message, userID, ipAddress, metadata)
}

// LogMediaEvent logs an image upload.
func (s *EventService) LogMediaEvent(ctx context.Context, message, userID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryMedia, message, userID, ipAddress, metadata)
}

// RecentEvents returns the newest events first.
func (s *EventService) RecentEvents(ctx context.Context, limit int64) ([]store.Event, error) {
	return s.queries.ListEvents(ctx, limit)
}

// DeleteOldEvents removes events older than the specified duration and
// reports how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}

// ClientMetadata describes the browser behind a request for auth events.
func ClientMetadata(userAgent string) map[string]any {
	ua := useragent.Parse(userAgent)

	browser, os := ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return map[string]any{
		"browser": browser,
		"os":      os,
		"device":  device,
	}
}
