// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the firmsite project.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/firmsite/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "firmsite-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// CreateUser inserts an account with the given email and password hash.
func CreateUser(t *testing.T, db *sql.DB, email, passwordHash string) store.User {
	t.Helper()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

// GrantAdmin assigns the admin role to userID.
func GrantAdmin(t *testing.T, db *sql.DB, userID string) {
	t.Helper()
	if _, err := store.New(db).CreateUserRole(context.Background(), store.CreateUserRoleParams{
		UserID:    userID,
		Role:      store.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("GrantAdmin(%s): %v", userID, err)
	}
}

// CreateAdmin inserts an account and grants it the admin role.
func CreateAdmin(t *testing.T, db *sql.DB, email string) store.User {
	t.Helper()
	user := CreateUser(t, db, email, "unused-hash")
	GrantAdmin(t, db, user.ID)
	return user
}

// CreateSection provisions a content section with raw JSON content.
func CreateSection(t *testing.T, db *sql.DB, key, contentJSON string) {
	t.Helper()
	if err := store.New(db).CreateContentSection(context.Background(), store.CreateContentSectionParams{
		ID:         uuid.NewString(),
		SectionKey: key,
		Content:    contentJSON,
		UpdatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateSection(%s): %v", key, err)
	}
}
