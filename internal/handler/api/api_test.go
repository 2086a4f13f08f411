// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/firmsite/internal/cache"
	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/media"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/storage"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/testutil"
)

type apiFixture struct {
	handler *Handler
	admin   store.User
	visitor store.User
}

func newTestAPIHandler(t *testing.T) apiFixture {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	logger := testutil.TestLoggerSilent()
	c := content.NewCache(cache.NewMemoryCache(cache.MemoryCacheOptions{}), time.Minute)
	resolver := content.NewResolver(queries, c, logger)
	bucket, err := storage.NewLocalBucket(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalBucket: %v", err)
	}

	testutil.CreateSection(t, db, "hero", `{"headline":"Injured?"}`)
	testutil.CreateSection(t, db, "contact", `{"phone":"555-0100"}`)

	return apiFixture{
		handler: NewHandler(db, resolver, content.NewMutator(queries, resolver, c, logger), media.NewUploader(queries, bucket, logger)),
		admin:   testutil.CreateAdmin(t, db, "admin@example.com"),
		visitor: testutil.CreateUser(t, db, "visitor@example.com", "unused-hash"),
	}
}

func withUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

func withKey(r *http.Request, key string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("key", key)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return v
}

func TestStatus(t *testing.T) {
	f := newTestAPIHandler(t)
	w := httptest.NewRecorder()
	f.handler.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	resp := decode[struct{ Data StatusResponse }](t, w)
	if resp.Data.Status != "ok" || resp.Data.Version != "v1" {
		t.Errorf("Status() = %+v", resp.Data)
	}
}

func TestListPublicContent(t *testing.T) {
	f := newTestAPIHandler(t)

	tests := []struct {
		name      string
		target    string
		wantTotal int
	}{
		{"all", "/api/v1/content", 2},
		{"one key", "/api/v1/content?section_key=hero", 1},
		{"unknown key", "/api/v1/content?section_key=nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handler.ListPublicContent(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d; want 200", w.Code)
			}
			resp := decode[struct {
				Data []content.PublicSection
				Meta Meta
			}](t, w)
			if resp.Meta.Total != tt.wantTotal || len(resp.Data) != tt.wantTotal {
				t.Errorf("total = %d, len = %d; want %d", resp.Meta.Total, len(resp.Data), tt.wantTotal)
			}
		})
	}

	t.Run("no version or editor exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.ListPublicContent(w, httptest.NewRequest(http.MethodGet, "/api/v1/content", nil))
		body := w.Body.String()
		if strings.Contains(body, `"version"`) || strings.Contains(body, `"updated_by"`) {
			t.Errorf("public content leaked admin fields: %s", body)
		}
	})
}

func TestListAdminContent(t *testing.T) {
	f := newTestAPIHandler(t)

	t.Run("admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.ListAdminContent(w, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil), f.admin))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", w.Code)
		}
		resp := decode[struct{ Data []content.Section }](t, w)
		if len(resp.Data) != 2 || resp.Data[0].Version != 1 {
			t.Errorf("admin content = %+v", resp.Data)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.ListAdminContent(w, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil), f.visitor))
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d; want 403", w.Code)
		}
	})
}

func TestUpdateContent(t *testing.T) {
	f := newTestAPIHandler(t)

	patch := func(user store.User, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/content/"+key, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.handler.UpdateContent(w, withKey(withUser(req, user), key))
		return w
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := patch(f.admin, "hero", `{"content":{"subheadline":"We fight"},"version":1}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
		}
		resp := decode[struct{ Data content.Section }](t, w)
		if resp.Data.Content["headline"] != "Injured?" || resp.Data.Content["subheadline"] != "We fight" {
			t.Errorf("content = %v", resp.Data.Content)
		}
		if resp.Data.Version != 2 {
			t.Errorf("version = %d; want 2", resp.Data.Version)
		}
	})

	tests := []struct {
		name       string
		user       store.User
		key        string
		body       string
		wantStatus int
	}{
		{"stale version", f.admin, "hero", `{"content":{"headline":"x"},"version":1}`, http.StatusConflict},
		{"missing section", f.admin, "attorney", `{"content":{"name":"x"}}`, http.StatusNotFound},
		{"non-admin", f.visitor, "hero", `{"content":{"headline":"x"}}`, http.StatusForbidden},
		{"missing content", f.admin, "hero", `{}`, http.StatusUnprocessableEntity},
		{"malformed json", f.admin, "hero", `{"content":`, http.StatusBadRequest},
		{"oversized field", f.admin, "hero", `{"content":{"headline":"` + strings.Repeat("a", content.MaxFieldLength+1) + `"}}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := patch(tt.user, tt.key, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Code >= 400 {
				resp := decode[ErrorResponse](t, w)
				if resp.Error.Code == "" || resp.Error.Message == "" {
					t.Errorf("error envelope incomplete: %+v", resp)
				}
			}
		})
	}
}

func TestUploadImage_Rejections(t *testing.T) {
	f := newTestAPIHandler(t)

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.handler.UploadImage(w, withUser(req, f.admin))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", w.Code)
		}
	})
}
