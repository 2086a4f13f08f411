// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content resolves, caches and edits the named copy sections
// (hero, attorney, contact, firm, ...) rendered by the public pages.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/firmsite/internal/store"
)

var (
	// ErrForbidden is returned when the actor does not hold the admin role.
	ErrForbidden = errors.New("admin access required")
	// ErrSectionNotFound is returned when editing a section that was never provisioned.
	ErrSectionNotFound = errors.New("content section not found")
	// ErrVersionConflict is returned when a conditional edit lost a race.
	ErrVersionConflict = errors.New("content section was modified by someone else")
)

// Mode selects which projection of the content table a read uses.
type Mode string

const (
	ModePublic Mode = "public"
	ModeAdmin  Mode = "admin"
)

// Fields maps field names to values within one section.
type Fields map[string]string

// PublicSection is what anonymous visitors may see of a section.
type PublicSection struct {
	SectionKey string    `json:"section_key"`
	Content    Fields    `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Section is a full content row as seen by admins.
type Section struct {
	ID         string    `json:"id"`
	SectionKey string    `json:"section_key"`
	Content    Fields    `json:"content"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
	UpdatedBy  *string   `json:"updated_by"`
}

// Store is the subset of store.Queries the content layer needs.
type Store interface {
	ListPublicContent(ctx context.Context) ([]store.PublicContentSection, error)
	GetPublicContent(ctx context.Context, sectionKey string) (store.PublicContentSection, error)
	ListAdminContent(ctx context.Context, actorID string) ([]store.ContentSection, error)
	GetAdminContent(ctx context.Context, arg store.GetAdminContentParams) (store.ContentSection, error)
	UpdateContent(ctx context.Context, arg store.UpdateContentParams) (store.ContentSection, error)
	HasRole(ctx context.Context, arg store.HasRoleParams) (bool, error)
}

func decodeFields(sectionKey, raw string) (Fields, error) {
	fields := Fields{}
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decoding section %q: %w", sectionKey, err)
	}
	return fields, nil
}

func fromPublicRow(row store.PublicContentSection) (PublicSection, error) {
	fields, err := decodeFields(row.SectionKey, row.Content)
	if err != nil {
		return PublicSection{}, err
	}
	return PublicSection{SectionKey: row.SectionKey, Content: fields, UpdatedAt: row.UpdatedAt}, nil
}

func fromAdminRow(row store.ContentSection) (Section, error) {
	fields, err := decodeFields(row.SectionKey, row.Content)
	if err != nil {
		return Section{}, err
	}
	s := Section{
		ID:         row.ID,
		SectionKey: row.SectionKey,
		Content:    fields,
		Version:    row.Version,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.UpdatedBy.Valid {
		by := row.UpdatedBy.String
		s.UpdatedBy = &by
	}
	return s, nil
}

// Clone returns a copy of f that can be modified freely.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
