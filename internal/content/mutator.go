// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/firmsite/internal/store"
)

// MaxFieldLength caps a single field value, in bytes.
const MaxFieldLength = 10000

// ErrInvalidEdit is returned for edits with an empty field name or an oversized value.
var ErrInvalidEdit = errors.New("invalid content edit")

// Mutator applies admin edits to stored sections.
type Mutator struct {
	store    Store
	resolver *Resolver
	cache    *Cache
	policy   *bluemonday.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// NewMutator creates a Mutator. The resolver supplies the admin check.
func NewMutator(s Store, resolver *Resolver, c *Cache, logger *slog.Logger) *Mutator {
	return &Mutator{
		store:    s,
		resolver: resolver,
		cache:    c,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
		now:      time.Now,
	}
}

// Apply overlays edits onto the stored fields of section key and writes the
// result as actorID. Fields absent from edits are kept. When expectedVersion
// is set the write only happens if the stored version still matches.
// All cached reads are dropped after a successful write.
func (m *Mutator) Apply(ctx context.Context, actorID, key string, edits Fields, expectedVersion *int64) (Section, error) {
	if err := m.resolver.RequireAdmin(ctx, actorID); err != nil {
		return Section{}, err
	}

	clean, err := m.sanitize(edits)
	if err != nil {
		return Section{}, err
	}

	row, err := m.store.GetAdminContent(ctx, store.GetAdminContentParams{SectionKey: key, ActorID: actorID})
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrSectionNotFound
	}
	if err != nil {
		return Section{}, fmt.Errorf("reading section %q: %w", key, err)
	}

	current, err := fromAdminRow(row)
	if err != nil {
		return Section{}, err
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return Section{}, ErrVersionConflict
	}
	if len(clean) == 0 {
		return current, nil
	}

	merged := Merge(current.Content, clean)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return Section{}, fmt.Errorf("encoding section %q: %w", key, err)
	}

	params := store.UpdateContentParams{
		Content:    string(encoded),
		UpdatedAt:  m.now().UTC(),
		UpdatedBy:  actorID,
		SectionKey: key,
	}
	if expectedVersion != nil {
		params.ExpectedVersion = sql.NullInt64{Int64: *expectedVersion, Valid: true}
	}

	updated, err := m.store.UpdateContent(ctx, params)
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, m.explainSkippedWrite(ctx, actorID, expectedVersion != nil)
	}
	if err != nil {
		return Section{}, fmt.Errorf("writing section %q: %w", key, err)
	}

	if err := m.cache.InvalidateAll(ctx); err != nil {
		m.logger.Warn("content cache invalidation failed", "error", err, "section", key, "category", "cache")
	}

	return fromAdminRow(updated)
}

// explainSkippedWrite maps a write that matched no row back to a cause.
func (m *Mutator) explainSkippedWrite(ctx context.Context, actorID string, conditional bool) error {
	if err := m.resolver.RequireAdmin(ctx, actorID); err != nil {
		return err
	}
	if conditional {
		return ErrVersionConflict
	}
	return ErrSectionNotFound
}

// sanitize strips markup from every value. Values are stored as plain text;
// templates escape them on output.
func (m *Mutator) sanitize(edits Fields) (Fields, error) {
	clean := make(Fields, len(edits))
	for field, value := range edits {
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidEdit)
		}
		if len(value) > MaxFieldLength {
			return nil, fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidEdit, field, MaxFieldLength)
		}
		clean[field] = html.UnescapeString(m.policy.Sanitize(value))
	}
	return clean, nil
}

// Merge returns current with every field in edits overlaid. Neither input is modified.
func Merge(current, edits Fields) Fields {
	merged := current.Clone()
	for k, v := range edits {
		merged[k] = v
	}
	return merged
}
