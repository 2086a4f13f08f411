// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package roster manages which accounts hold the admin role. Every
// operation re-verifies that the caller is an admin before acting.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/store"
)

// UnknownEmail is shown for grants whose account no longer exists.
const UnknownEmail = "Unknown"

var (
	ErrForbidden      = errors.New("admin access required")
	ErrEmailRequired  = errors.New("email is required")
	ErrUserIDRequired = errors.New("user id is required")
	ErrNotFound       = errors.New("user not found")
	ErrAlreadyAdmin   = errors.New("user is already an admin")
	ErrSelfRemoval    = errors.New("cannot remove your own admin access")
	ErrLastAdmin      = errors.New("cannot remove the last admin")
)

// Admin is one admin grant with its display email.
type Admin struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the subset of store.Queries the roster needs.
type Store interface {
	HasRole(ctx context.Context, arg store.HasRoleParams) (bool, error)
	ListRoleHolders(ctx context.Context, role string) ([]store.ListRoleHoldersRow, error)
	CreateUserRole(ctx context.Context, arg store.CreateUserRoleParams) (store.UserRole, error)
	DeleteUserRoleUnlessLast(ctx context.Context, arg store.DeleteUserRoleParams) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
}

// Service lists, grants and revokes the admin role.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a roster service.
func NewService(s Store, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger, now: time.Now}
}

// Authorize returns nil when actorID holds the admin role.
func (s *Service) Authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrForbidden
	}
	ok, err := s.store.HasRole(ctx, store.HasRoleParams{UserID: actorID, Role: store.RoleAdmin})
	if err != nil {
		return fmt.Errorf("checking admin role: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// List returns every admin grant, oldest first.
func (s *Service) List(ctx context.Context, actorID string) ([]Admin, error) {
	if err := s.Authorize(ctx, actorID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListRoleHolders(ctx, store.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}

	admins := make([]Admin, 0, len(rows))
	for _, r := range rows {
		email := UnknownEmail
		if r.Email.Valid {
			email = r.Email.String
		}
		admins = append(admins, Admin{UserID: r.UserID, Email: email, CreatedAt: r.CreatedAt})
	}
	return admins, nil
}

// Add grants the admin role to the existing account registered under email.
// Accounts are never created here.
func (s *Service) Add(ctx context.Context, actorID, email string) (Admin, error) {
	if err := s.Authorize(ctx, actorID); err != nil {
		return Admin{}, err
	}

	email = auth.NormalizeEmail(email)
	if email == "" {
		return Admin{}, ErrEmailRequired
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, fmt.Errorf("looking up user: %w", err)
	}

	isAdmin, err := s.store.HasRole(ctx, store.HasRoleParams{UserID: user.ID, Role: store.RoleAdmin})
	if err != nil {
		return Admin{}, fmt.Errorf("checking target role: %w", err)
	}
	if isAdmin {
		return Admin{}, ErrAlreadyAdmin
	}

	grant, err := s.store.CreateUserRole(ctx, store.CreateUserRoleParams{
		UserID:    user.ID,
		Role:      store.RoleAdmin,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		// A concurrent grant for the same account hit the unique index.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return Admin{}, ErrAlreadyAdmin
		}
		return Admin{}, fmt.Errorf("granting admin: %w", err)
	}

	s.logger.Info("admin granted", "user_id", user.ID, "email", user.Email, "by", actorID, "category", model.EventCategoryUser)
	return Admin{UserID: grant.UserID, Email: user.Email, CreatedAt: grant.CreatedAt}, nil
}

// Remove revokes userID's admin grant. Callers cannot revoke their own grant
// and the last remaining grant is kept. Removing an account that is not an
// admin succeeds without change.
func (s *Service) Remove(ctx context.Context, actorID, userID string) error {
	if err := s.Authorize(ctx, actorID); err != nil {
		return err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if userID == actorID {
		return ErrSelfRemoval
	}

	n, err := s.store.DeleteUserRoleUnlessLast(ctx, store.DeleteUserRoleParams{UserID: userID, Role: store.RoleAdmin})
	if err != nil {
		return fmt.Errorf("revoking admin: %w", err)
	}
	if n == 0 {
		stillAdmin, err := s.store.HasRole(ctx, store.HasRoleParams{UserID: userID, Role: store.RoleAdmin})
		if err != nil {
			return fmt.Errorf("checking target role: %w", err)
		}
		if stillAdmin {
			return ErrLastAdmin
		}
		return nil
	}

	s.logger.Info("admin revoked", "user_id", userID, "by", actorID, "category", model.EventCategoryUser)
	return nil
}
