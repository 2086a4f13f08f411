// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/firmsite/internal/cache"
	"github.com/olegiv/firmsite/internal/testutil"
)

func TestResolverPublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateSection(t, f.db, "hero", `{"headline":"Hurt?"}`)
	testutil.CreateSection(t, f.db, "contact", `{"phone":"555-0100"}`)

	t.Run("all sections", func(t *testing.T) {
		sections, err := f.resolver.Public(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, sections, 2)
	})

	t.Run("keyed read", func(t *testing.T) {
		sections, err := f.resolver.Public(ctx, strPtr("hero"))
		require.NoError(t, err)
		require.Len(t, sections, 1)
		assert.Equal(t, "hero", sections[0].SectionKey)
		assert.Equal(t, "Hurt?", sections[0].Content["headline"])
	})

	t.Run("missing key is empty not error", func(t *testing.T) {
		sections, err := f.resolver.Public(ctx, strPtr("nope"))
		require.NoError(t, err)
		assert.Empty(t, sections)
	})

	t.Run("served from cache", func(t *testing.T) {
		_, err := f.resolver.Public(ctx, strPtr("contact"))
		require.NoError(t, err)

		// Change the row behind the cache's back.
		_, err = f.db.Exec(`UPDATE content_sections SET content = '{"phone":"changed"}' WHERE section_key = 'contact'`)
		require.NoError(t, err)

		sections, err := f.resolver.Public(ctx, strPtr("contact"))
		require.NoError(t, err)
		assert.Equal(t, "555-0100", sections[0].Content["phone"])

		require.NoError(t, f.cache.InvalidateAll(ctx))
		sections, err = f.resolver.Public(ctx, strPtr("contact"))
		require.NoError(t, err)
		assert.Equal(t, "changed", sections[0].Content["phone"])
	})
}

func TestResolverPublicStoreFailure(t *testing.T) {
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = backend.Close() }()

	boom := errors.New("store down")
	r := NewResolver(failingStore{err: boom}, NewCache(backend, time.Minute), testutil.TestLoggerSilent())

	_, err := r.Public(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Public() error = %v, want wrapped %v", err, boom)
	}

	lookup := r.Lookup(context.Background())
	if len(lookup) != 0 {
		t.Errorf("Lookup() on failing store = %v, want empty", lookup)
	}
	if got := lookup.Get(SectionContact, "phone"); got != Defaults[SectionContact]["phone"] {
		t.Errorf("phone = %q, want default", got)
	}
}

func TestResolverAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateSection(t, f.db, "hero", `{"headline":"Hurt?"}`)
	admin := testutil.CreateAdmin(t, f.db, "admin@example.com")
	user := testutil.CreateUser(t, f.db, "user@example.com", "unused-hash")

	t.Run("admin sees full rows", func(t *testing.T) {
		sections, err := f.resolver.Admin(ctx, admin.ID, strPtr("hero"))
		require.NoError(t, err)
		require.Len(t, sections, 1)
		assert.NotEmpty(t, sections[0].ID)
		assert.Equal(t, int64(1), sections[0].Version)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := f.resolver.Admin(ctx, user.ID, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		_, err := f.resolver.Admin(ctx, "", nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("revocation applies to cached reads", func(t *testing.T) {
		_, err := f.resolver.Admin(ctx, admin.ID, nil)
		require.NoError(t, err)

		_, err = f.db.Exec(`DELETE FROM user_roles WHERE user_id = ?`, admin.ID)
		require.NoError(t, err)

		_, err = f.resolver.Admin(ctx, admin.ID, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRequireAdminStoreError(t *testing.T) {
	boom := errors.New("role lookup failed")
	r := NewResolver(failingStore{err: boom}, nil, testutil.TestLoggerSilent())

	err := r.RequireAdmin(context.Background(), "someone")
	if !errors.Is(err, boom) {
		t.Errorf("RequireAdmin() error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("store failure must not be reported as forbidden")
	}
}
