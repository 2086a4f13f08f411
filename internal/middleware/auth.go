// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/logging"
	"github.com/olegiv/firmsite/internal/session"
	"github.com/olegiv/firmsite/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser ContextKey = "user"
)

// ErrNoCredential is returned when a request carries no bearer token.
var ErrNoCredential = errors.New("missing bearer credential")

// UserStore looks up accounts by id.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (store.User, error)
}

// LoadUser loads the signed-in account from the session into the request
// context. A session pointing at a deleted account is cleared. Requests
// without a session pass through unchanged.
func LoadUser(sm *scs.SessionManager, users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), session.KeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, sql.ErrNoRows) {
				sm.Remove(r.Context(), session.KeyUserID)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load session user", "error", err, "category", "auth")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or "" if not found.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// GetUserEmail returns the current user's email from context, or empty string if not found.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// BearerAuth resolves "Authorization: Bearer <token>" headers to accounts.
type BearerAuth struct {
	tokens *auth.TokenIssuer
	users  UserStore
}

// NewBearerAuth creates a BearerAuth.
func NewBearerAuth(tokens *auth.TokenIssuer, users UserStore) *BearerAuth {
	return &BearerAuth{tokens: tokens, users: users}
}

// Identify verifies the request's bearer token and returns its account.
// The account must still exist. It returns ErrNoCredential when the header
// is absent and auth.ErrInvalidToken for any other failure to authenticate.
func (b *BearerAuth) Identify(r *http.Request) (store.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return store.User{}, ErrNoCredential
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return store.User{}, auth.ErrInvalidToken
	}

	claims, err := b.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return store.User{}, err
	}

	user, err := b.users.GetUserByID(r.Context(), claims.Subject)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, auth.ErrInvalidToken
	}
	if err != nil {
		return store.User{}, err
	}
	return user, nil
}

// RequireBearer rejects requests without a valid bearer token with a JSON
// 401 and stores the account in the request context otherwise. Role checks
// are left to the handlers and services.
func (b *BearerAuth) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := b.Identify(r)
		if err != nil {
			if !errors.Is(err, ErrNoCredential) && !errors.Is(err, auth.ErrInvalidToken) {
				slog.ErrorContext(r.Context(), "bearer lookup failed", "error", err, "category", "auth")
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestPath stores the request path in the context for the event log.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
