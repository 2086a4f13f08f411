// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/middleware"
)

// ListPublicContent handles GET /api/v1/content[?section_key=].
// A key with no row yields an empty list.
func (h *Handler) ListPublicContent(w http.ResponseWriter, r *http.Request) {
	sections, err := h.resolver.Public(r.Context(), optionalQuery(r, "section_key"))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read public content", "error", err)
		WriteInternalError(w, "Failed to read content")
		return
	}
	if sections == nil {
		sections = []content.PublicSection{}
	}
	WriteSuccess(w, sections, &Meta{Total: len(sections)})
}

// ListAdminContent handles GET /api/v1/admin/content[?section_key=].
func (h *Handler) ListAdminContent(w http.ResponseWriter, r *http.Request) {
	sections, err := h.resolver.Admin(r.Context(), middleware.GetUserID(r), optionalQuery(r, "section_key"))
	if err != nil {
		writeContentError(w, r, err)
		return
	}
	if sections == nil {
		sections = []content.Section{}
	}
	WriteSuccess(w, sections, &Meta{Total: len(sections)})
}

// UpdateContentRequest is the body of a section edit.
type UpdateContentRequest struct {
	Content content.Fields `json:"content"`
	Version *int64         `json:"version,omitempty"`
}

// UpdateContent handles PATCH /api/v1/admin/content/{key}. Only the fields
// present in the body change.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpdateContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Content == nil {
		WriteValidationError(w, map[string]string{"content": "content is required"})
		return
	}

	actorID := middleware.GetUserID(r)
	updated, err := h.mutator.Apply(r.Context(), actorID, key, req.Content, req.Version)
	if err != nil {
		writeContentError(w, r, err)
		return
	}

	fields := make([]string, 0, len(req.Content))
	for k := range req.Content {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	_ = h.eventService.LogContentEvent(r.Context(), "Content section updated", actorID, middleware.ClientIP(r), map[string]any{
		"section_key": key,
		"fields":      fields,
		"version":     updated.Version,
		"source":      "api",
	})

	WriteSuccess(w, updated, nil)
}

func writeContentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrForbidden):
		WriteForbidden(w, "Admin access required")
	case errors.Is(err, content.ErrSectionNotFound):
		WriteNotFound(w, "Content section not found")
	case errors.Is(err, content.ErrVersionConflict):
		WriteConflict(w, "Content section was modified by someone else")
	case errors.Is(err, content.ErrInvalidEdit):
		WriteBadRequest(w, err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "content operation failed", "error", err)
		WriteInternalError(w, "Failed to process content")
	}
}
