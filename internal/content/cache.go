// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"time"

	"github.com/olegiv/firmsite/internal/cache"
)

const cachePrefix = "content:"

// Cache holds resolved reads keyed by (mode, section key). Any successful
// edit drops every entry.
type Cache struct {
	public  *cache.TypedCache[[]PublicSection]
	admin   *cache.TypedCache[[]Section]
	backend cache.Cacher
}

// NewCache creates a content cache over the shared cache backend.
func NewCache(backend cache.Cacher, ttl time.Duration) *Cache {
	return &Cache{
		public:  cache.NewTypedCache[[]PublicSection](backend, ttl),
		admin:   cache.NewTypedCache[[]Section](backend, ttl),
		backend: backend,
	}
}

func cacheKey(mode Mode, key *string) string {
	if key == nil {
		return cachePrefix + string(mode) + ":all"
	}
	return cachePrefix + string(mode) + ":key:" + *key
}

// GetPublic returns a cached public read.
func (c *Cache) GetPublic(ctx context.Context, key *string) ([]PublicSection, bool) {
	v, ok := c.public.Get(ctx, cacheKey(ModePublic, key))
	if !ok {
		return nil, false
	}
	return *v, true
}

// PutPublic stores a public read.
func (c *Cache) PutPublic(ctx context.Context, key *string, sections []PublicSection) error {
	return c.public.Set(ctx, cacheKey(ModePublic, key), &sections)
}

// GetAdmin returns a cached admin read. Callers must check the actor's
// role before consulting it.
func (c *Cache) GetAdmin(ctx context.Context, key *string) ([]Section, bool) {
	v, ok := c.admin.Get(ctx, cacheKey(ModeAdmin, key))
	if !ok {
		return nil, false
	}
	return *v, true
}

// PutAdmin stores an admin read.
func (c *Cache) PutAdmin(ctx context.Context, key *string, sections []Section) error {
	return c.admin.Set(ctx, cacheKey(ModeAdmin, key), &sections)
}

// InvalidateAll drops every cached read in both modes.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, cachePrefix)
}
