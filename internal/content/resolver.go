// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/firmsite/internal/store"
)

// Resolver reads content sections through the cache.
type Resolver struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(s Store, c *Cache, logger *slog.Logger) *Resolver {
	return &Resolver{store: s, cache: c, logger: logger}
}

// Public returns the anonymous projection of one section (key set) or all
// sections (key nil). A keyed read of a missing section returns an empty
// slice, not an error.
func (r *Resolver) Public(ctx context.Context, key *string) ([]PublicSection, error) {
	if sections, ok := r.cache.GetPublic(ctx, key); ok {
		return sections, nil
	}

	var rows []store.PublicContentSection
	if key == nil {
		all, err := r.store.ListPublicContent(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing public content: %w", err)
		}
		rows = all
	} else {
		row, err := r.store.GetPublicContent(ctx, *key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, fmt.Errorf("reading public content %q: %w", *key, err)
		default:
			rows = append(rows, row)
		}
	}

	sections := make([]PublicSection, 0, len(rows))
	for _, row := range rows {
		s, err := fromPublicRow(row)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	if err := r.cache.PutPublic(ctx, key, sections); err != nil {
		r.logger.Debug("content cache write failed", "mode", ModePublic, "error", err)
	}
	return sections, nil
}

// Admin returns full rows for one section or all sections. The actor's admin
// role is checked on every call, before the cache is consulted.
func (r *Resolver) Admin(ctx context.Context, actorID string, key *string) ([]Section, error) {
	if err := r.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if sections, ok := r.cache.GetAdmin(ctx, key); ok {
		return sections, nil
	}

	var rows []store.ContentSection
	if key == nil {
		all, err := r.store.ListAdminContent(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("listing admin content: %w", err)
		}
		rows = all
	} else {
		row, err := r.store.GetAdminContent(ctx, store.GetAdminContentParams{SectionKey: *key, ActorID: actorID})
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, fmt.Errorf("reading admin content %q: %w", *key, err)
		default:
			rows = append(rows, row)
		}
	}

	sections := make([]Section, 0, len(rows))
	for _, row := range rows {
		s, err := fromAdminRow(row)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	if err := r.cache.PutAdmin(ctx, key, sections); err != nil {
		r.logger.Debug("content cache write failed", "mode", ModeAdmin, "error", err)
	}
	return sections, nil
}

// RequireAdmin returns ErrForbidden unless actorID holds the admin role.
func (r *Resolver) RequireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrForbidden
	}
	ok, err := r.store.HasRole(ctx, store.HasRoleParams{UserID: actorID, Role: store.RoleAdmin})
	if err != nil {
		return fmt.Errorf("checking admin role: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// Lookup reads every public section and indexes it for page rendering.
// A failed read is logged and yields an empty Lookup so pages fall back
// to their defaults.
func (r *Resolver) Lookup(ctx context.Context) Lookup {
	sections, err := r.Public(ctx, nil)
	if err != nil {
		r.logger.Warn("content unavailable, rendering defaults", "error", err, "category", "content")
		return Lookup{}
	}
	return NewLookup(sections)
}
