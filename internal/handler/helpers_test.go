// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/cache"
	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/render"
	"github.com/olegiv/firmsite/internal/roster"
	"github.com/olegiv/firmsite/internal/session"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/testutil"
	"github.com/olegiv/firmsite/web"
)

const testTokenSecret = "handler-test-token-secret-long-enough"

// testEnv bundles the collaborators the handlers are built from.
type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	tokens   *auth.TokenIssuer
	bearer   *middleware.BearerAuth
	roster   *roster.Service
	resolver *content.Resolver
	mutator  *content.Mutator
	renderer *render.Renderer
	sessions *scs.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	logger := testutil.TestLoggerSilent()
	tokens := auth.NewTokenIssuer(testTokenSecret, time.Hour)

	contentCache := content.NewCache(cache.NewMemoryCache(cache.MemoryCacheOptions{}), time.Minute)
	resolver := content.NewResolver(queries, contentCache, logger)

	sm := session.New(db, true)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		db:       db,
		queries:  queries,
		tokens:   tokens,
		bearer:   middleware.NewBearerAuth(tokens, queries),
		roster:   roster.NewService(queries, logger),
		resolver: resolver,
		mutator:  content.NewMutator(queries, resolver, contentCache, logger),
		renderer: renderer,
		sessions: sm,
	}
}

// withSession wraps h the way the router does for cookie-authenticated routes.
func (e *testEnv) withSession(h http.HandlerFunc) http.Handler {
	return e.sessions.LoadAndSave(middleware.LoadUser(e.sessions, e.queries)(h))
}

// createAccount inserts an account whose password is password.
func (e *testEnv) createAccount(t *testing.T, email, password string) store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return testutil.CreateUser(t, e.db, email, hash)
}

// bearerFor issues a token for user.
func (e *testEnv) bearerFor(t *testing.T, user store.User) string {
	t.Helper()
	token, _, err := e.tokens.Issue(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// asUser places user in the request context as LoadUser would.
func asUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	assertStatus(t, w.Code, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q; want %q", loc, want)
	}
}
