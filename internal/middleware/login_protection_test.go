// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestLoginProtection(t *testing.T, cfg LoginProtectionConfig) (*LoginProtection, *time.Time) {
	t.Helper()
	lp := NewLoginProtection(cfg)
	t.Cleanup(lp.Close)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if got := lp.RemainingAttempts("new@example.com"); got != 5 {
		t.Errorf("RemainingAttempts() = %d, want 5", got)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, now := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})
	email := "Admin@Example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin@example.com"); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1 (key is case-insensitive)", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third failure: locked=%v duration=%v", locked, d)
	}
	if locked, _ := lp.IsAccountLocked(email); !locked {
		t.Error("IsAccountLocked() = false after lockout")
	}

	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock should have expired")
	}

	// The second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt(email)
	}
	if _, d := lp.RecordFailedAttempt(email); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 3})
	lp.RecordFailedAttempt("user@example.com")
	lp.RecordFailedAttempt("user@example.com")

	lp.RecordSuccessfulLogin("user@example.com")

	if got := lp.RemainingAttempts("user@example.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtectionWindowResets(t *testing.T) {
	lp, now := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 2,
		AttemptWindow:     time.Minute,
	})
	lp.RecordFailedAttempt("user@example.com")
	*now = now.Add(2 * time.Minute)

	if locked, _ := lp.RecordFailedAttempt("user@example.com"); locked {
		t.Error("attempt outside the window should start a new count")
	}
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp, now := newTestLoginProtection(t, LoginProtectionConfig{AttemptWindow: time.Minute})
	lp.RecordFailedAttempt("user@example.com")

	*now = now.Add(time.Hour)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("failedAttempts has %d entries, want 0", n)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp, _ := newTestLoginProtection(t, LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(""))
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := post("application/x-www-form-urlencoded"); rec.Code != http.StatusOK {
		t.Fatalf("first POST status = %d, want 200", rec.Code)
	}

	rec := post("application/x-www-form-urlencoded")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST status = %d, want 429", rec.Code)
	}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Error("form post should get a text response")
	}

	rec = post("application/json")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("JSON POST: status = %d, Content-Type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", getRec.Code)
	}
}
