// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/olegiv/firmsite/internal/testutil"
)

func TestNew_DevMode(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name != "firmsite_session" {
		t.Errorf("Cookie.Name = %q, want firmsite_session", sm.Cookie.Name)
	}
}

func TestNew_ProductionMode(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-firmsite_session" {
		t.Errorf("expected __Host- cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)

	if sm.Lifetime != 12*time.Hour {
		t.Errorf("Lifetime = %v, want 12h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := New(db, true)
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sm.Put(ctx, KeyUserID, "user-1")

	token, _, err := sm.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	loaded, err := sm.Load(context.Background(), token)
	if err != nil {
		t.Fatalf("Load(token): %v", err)
	}
	if got := sm.GetString(loaded, KeyUserID); got != "user-1" {
		t.Errorf("user id = %q, want user-1", got)
	}
}
