// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/testutil"
)

const testSecret = "test-token-secret-that-is-long-enough"

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user := GetUser(req); user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
		if id := GetUserID(req); id != "" {
			t.Errorf("GetUserID() = %q, want empty", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), ContextKeyUser, store.User{ID: "u-1", Email: "test@example.com"})
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if GetUserID(req) != "u-1" || GetUserEmail(req) != "test@example.com" {
			t.Errorf("got id=%q email=%q", GetUserID(req), GetUserEmail(req))
		}
	})
}

type bearerFixture struct {
	db     *sql.DB
	tokens *auth.TokenIssuer
	bearer *BearerAuth
	user   store.User
}

func newBearerFixture(t *testing.T) bearerFixture {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	return bearerFixture{
		db:     db,
		tokens: tokens,
		bearer: NewBearerAuth(tokens, store.New(db)),
		user:   testutil.CreateUser(t, db, "user@example.com", "unused-hash"),
	}
}

func TestBearerIdentify(t *testing.T) {
	f := newBearerFixture(t)
	valid, _, err := f.tokens.Issue(f.user.ID, f.user.Email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	orphan, _, err := f.tokens.Issue("deleted-account", "gone@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, _, err := auth.NewTokenIssuer("another-secret-that-is-long-enough!!", time.Hour).Issue(f.user.ID, f.user.Email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid", "Bearer " + valid, nil},
		{"lowercase scheme", "bearer " + valid, nil},
		{"missing", "", ErrNoCredential},
		{"wrong scheme", "Basic " + valid, auth.ErrInvalidToken},
		{"empty token", "Bearer ", auth.ErrInvalidToken},
		{"garbage", "Bearer not-a-jwt", auth.ErrInvalidToken},
		{"other key", "Bearer " + foreign, auth.ErrInvalidToken},
		{"account gone", "Bearer " + orphan, auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			user, err := f.bearer.Identify(req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Identify() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.ID != f.user.ID {
				t.Errorf("Identify() user = %q, want %q", user.ID, f.user.ID)
			}
		})
	}
}

func TestRequireBearer(t *testing.T) {
	f := newBearerFixture(t)
	token, _, _ := f.tokens.Issue(f.user.ID, f.user.Email)

	var seen string
	h := f.bearer.RequireBearer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != f.user.ID {
		t.Errorf("valid token: status = %d, user = %q", rec.Code, seen)
	}
}
