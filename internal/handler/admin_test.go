// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/firmsite/internal/media"
	"github.com/olegiv/firmsite/internal/storage"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/testutil"
)

func newTestAdminHandler(t *testing.T) (*AdminHandler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	bucket, err := storage.NewLocalBucket(t.TempDir(), "/media")
	require.NoError(t, err)

	return NewAdminHandler(AdminConfig{
		DB:            env.db,
		Renderer:      env.renderer,
		Resolver:      env.resolver,
		Mutator:       env.mutator,
		Uploader:      media.NewUploader(env.queries, bucket, testutil.TestLoggerSilent()),
		Roster:        env.roster,
		RetentionDays: 90,
	}), env
}

// withURLParam sets a chi route parameter on r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serveAs runs h inside a session with user in the request context.
func (e *testEnv) serveAs(h http.HandlerFunc, r *http.Request, user store.User) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, asUser(r, user))
	})).ServeHTTP(w, r)
	return w
}

func TestAdminHandler_Pages(t *testing.T) {
	h, env := newTestAdminHandler(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	testutil.CreateSection(t, env.db, "hero", `{"headline":"We Win"}`)

	tests := []struct {
		name string
		fn   http.HandlerFunc
		want string
	}{
		{"dashboard", h.Dashboard, "Admin Dashboard"},
		{"content", h.ContentEditor, "We Win"},
		{"images", h.Images, "Hero Background"},
		{"users", h.Users, "admin@example.com"},
		{"events", h.Events, "Event Log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serveAs(tt.fn, httptest.NewRequest(http.MethodGet, "/admin", nil), admin)
			assertStatus(t, w.Code, http.StatusOK)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestAdminHandler_UpdateContent(t *testing.T) {
	h, env := newTestAdminHandler(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	testutil.CreateSection(t, env.db, "hero", `{"headline":"Old","subheadline":"Keep me"}`)

	post := func(key string, values url.Values) *httptest.ResponseRecorder {
		req := withURLParam(formRequest("/admin/content/"+key, values), "key", key)
		return env.serveAs(h.UpdateContent, req, admin)
	}

	t.Run("changed field is saved", func(t *testing.T) {
		w := post("hero", url.Values{"headline": {"New"}, "subheadline": {"Keep me"}, "version": {"1"}})
		assertRedirect(t, w, redirectAdminContent)

		row, err := env.queries.GetPublicContent(t.Context(), "hero")
		require.NoError(t, err)
		assert.Contains(t, row.Content, `"headline":"New"`)
		assert.Contains(t, row.Content, `"subheadline":"Keep me"`)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		w := post("hero", url.Values{"headline": {"Stale"}, "version": {"1"}})
		assertRedirect(t, w, redirectAdminContent)

		row, err := env.queries.GetPublicContent(t.Context(), "hero")
		require.NoError(t, err)
		assert.NotContains(t, row.Content, "Stale")
	})

	t.Run("unprovisioned section", func(t *testing.T) {
		w := post("attorney", url.Values{"name": {"Jane"}})
		assertRedirect(t, w, redirectAdminContent)

		_, err := env.queries.GetPublicContent(t.Context(), "attorney")
		assert.Error(t, err)
	})

	t.Run("non-admin is sent home", func(t *testing.T) {
		visitor := testutil.CreateUser(t, env.db, "visitor@example.com", "unused-hash")
		req := withURLParam(formRequest("/admin/content/hero", url.Values{"headline": {"Hacked"}}), "key", "hero")
		w := env.serveAs(h.UpdateContent, req, visitor)
		assertRedirect(t, w, RouteRoot)
	})
}

func TestAdminHandler_Roster(t *testing.T) {
	h, env := newTestAdminHandler(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")
	target := testutil.CreateUser(t, env.db, "paralegal@example.com", "unused-hash")

	w := env.serveAs(h.AddAdmin, formRequest("/admin/users/add", url.Values{"email": {"paralegal@example.com"}}), admin)
	assertRedirect(t, w, redirectAdminUsers)

	isAdmin, err := env.queries.HasRole(t.Context(), store.HasRoleParams{UserID: target.ID, Role: store.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, isAdmin)

	w = env.serveAs(h.RemoveAdmin, formRequest("/admin/users/remove", url.Values{"user_id": {target.ID}}), admin)
	assertRedirect(t, w, redirectAdminUsers)

	isAdmin, err = env.queries.HasRole(t.Context(), store.HasRoleParams{UserID: target.ID, Role: store.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// Self-removal keeps the grant.
	w = env.serveAs(h.RemoveAdmin, formRequest("/admin/users/remove", url.Values{"user_id": {admin.ID}}), admin)
	assertRedirect(t, w, redirectAdminUsers)
	isAdmin, err = env.queries.HasRole(t.Context(), store.HasRoleParams{UserID: admin.ID, Role: store.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, target, filename, mimeType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminHandler_UploadImage(t *testing.T) {
	h, env := newTestAdminHandler(t)
	admin := testutil.CreateAdmin(t, env.db, "admin@example.com")

	t.Run("stores the image", func(t *testing.T) {
		req := withURLParam(multipartUpload(t, "/admin/images/logo", "logo.png", "image/png", pngBytes(t)), "slot", "logo")
		w := env.serveAs(h.UploadImage, req, admin)
		assertRedirect(t, w, redirectAdminImages)

		count, err := env.queries.CountImages(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects non-images", func(t *testing.T) {
		req := withURLParam(multipartUpload(t, "/admin/images/logo", "notes.txt", "text/plain", []byte("hello")), "slot", "logo")
		w := env.serveAs(h.UploadImage, req, admin)
		assertRedirect(t, w, redirectAdminImages)

		count, err := env.queries.CountImages(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing file", func(t *testing.T) {
		req := withURLParam(formRequest("/admin/images/logo", url.Values{}), "slot", "logo")
		w := env.serveAs(h.UploadImage, req, admin)
		assertRedirect(t, w, redirectAdminImages)
	})
}

func TestUploadErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{media.ErrNotImage, "Please upload an image file"},
		{media.ErrTooLarge, "Image must be less than 5MB"},
		{media.ErrUnknownSlot, "Invalid image slot"},
		{media.ErrForbidden, "Admin access required"},
		{context.DeadlineExceeded, ""},
	}
	for _, tt := range tests {
		if got := uploadErrorMessage(tt.err); got != tt.want {
			t.Errorf("uploadErrorMessage(%v) = %q; want %q", tt.err, got, tt.want)
		}
	}
}
