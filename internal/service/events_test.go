// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/testutil"
)

func TestLogEvent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	err := svc.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", "user-1", "10.0.0.1",
		map[string]any{"email": "jane@example.com"})
	if err != nil {
		t.Fatalf("LogAuthEvent: %v", err)
	}

	events, err := svc.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len = %d, want 1", len(events))
	}
	e := events[0]
	if e.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q", e.Category)
	}
	if !e.UserID.Valid || e.UserID.String != "user-1" {
		t.Errorf("UserID = %+v", e.UserID)
	}
	if e.IpAddress != "10.0.0.1" {
		t.Errorf("IpAddress = %q", e.IpAddress)
	}
	if !strings.Contains(e.Metadata, "jane@example.com") {
		t.Errorf("Metadata = %q", e.Metadata)
	}
}

func TestLogEvent_NoUser(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewEventService(db)
	ctx := context.Background()

	if err := svc.LogContentEvent(ctx, "Section updated", "", "", nil); err != nil {
		t.Fatalf("LogContentEvent: %v", err)
	}
	events, _ := svc.RecentEvents(ctx, 10)
	if len(events) != 1 || events[0].UserID.Valid {
		t.Fatalf("events = %+v, want one event without user", events)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("Metadata = %q, want {}", events[0].Metadata)
	}
}

func TestDeleteOldEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	_, _ = q.CreateEvent(ctx, store.CreateEventParams{
		Level: "info", Category: "system", Message: "old", Metadata: "{}",
		CreatedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	})
	svc := NewEventService(db)
	_ = svc.LogUserEvent(ctx, "fresh", "", "", nil)

	n, err := svc.DeleteOldEvents(ctx, 90*24*time.Hour)
	if err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
}

func TestClientMetadata(t *testing.T) {
	meta := ClientMetadata("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if meta["browser"] != "Chrome" {
		t.Errorf("browser = %v, want Chrome", meta["browser"])
	}
	if meta["device"] != "desktop" {
		t.Errorf("device = %v, want desktop", meta["device"])
	}

	empty := ClientMetadata("")
	if empty["browser"] != "Unknown" || empty["os"] != "Unknown" {
		t.Errorf("empty UA metadata = %v", empty)
	}
}
