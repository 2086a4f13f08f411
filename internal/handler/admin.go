// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/media"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/render"
	"github.com/olegiv/firmsite/internal/roster"
	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/store"
)

const (
	dashboardInquiryLimit = 10
	eventsPageLimit       = 100
	// maxUploadRequest leaves room for multipart framing around a maximal image.
	maxUploadRequest = model.MaxImageSize + 1<<20
)

// AdminHandler serves the admin panel pages behind the admin gate.
type AdminHandler struct {
	queries       *store.Queries
	renderer      *render.Renderer
	resolver      *content.Resolver
	mutator       *content.Mutator
	uploader      *media.Uploader
	roster        *roster.Service
	eventService  *service.EventService
	retentionDays int
}

// AdminConfig holds the AdminHandler's collaborators.
type AdminConfig struct {
	DB            *sql.DB
	Renderer      *render.Renderer
	Resolver      *content.Resolver
	Mutator       *content.Mutator
	Uploader      *media.Uploader
	Roster        *roster.Service
	RetentionDays int
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	return &AdminHandler{
		queries:       store.New(cfg.DB),
		renderer:      cfg.Renderer,
		resolver:      cfg.Resolver,
		mutator:       cfg.Mutator,
		uploader:      cfg.Uploader,
		roster:        cfg.Roster,
		eventService:  service.NewEventService(cfg.DB),
		retentionDays: cfg.RetentionDays,
	}
}

func (h *AdminHandler) page(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	renderPage(w, r, h.renderer, http.StatusOK, name, render.TemplateData{
		Title:   title,
		Data:    data,
		User:    middleware.GetUser(r),
		IsAdmin: true,
		Content: h.resolver.Lookup(r.Context()),
	})
}

// DashboardData holds the dashboard statistics.
type DashboardData struct {
	SectionCount int64
	ImageCount   int64
	LastUpdated  time.Time
	InquiryCount int64
	Inquiries    []store.CaseInquiry
}

// Dashboard renders the admin dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data DashboardData
	var err error

	if data.SectionCount, err = h.queries.CountContentSections(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to count content sections", "error", err)
	}
	if data.ImageCount, err = h.queries.CountImages(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to count images", "error", err)
	}
	data.LastUpdated, err = h.queries.GetLatestContentUpdate(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.ErrorContext(ctx, "failed to get latest content update", "error", err)
	}
	if data.InquiryCount, err = h.queries.CountCaseInquiries(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to count case inquiries", "error", err)
	}
	data.Inquiries, err = h.queries.ListCaseInquiries(ctx, store.ListCaseInquiriesParams{Limit: dashboardInquiryLimit})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list case inquiries", "error", err)
	}

	h.page(w, r, "admin/dashboard", "Admin Dashboard", data)
}

// EditorSection is one section form in the content editor.
type EditorSection struct {
	Spec      content.SectionSpec
	Missing   bool
	Values    content.Fields
	Version   int64
	UpdatedAt time.Time
}

// ContentEditor renders one form per catalogued section.
func (h *AdminHandler) ContentEditor(w http.ResponseWriter, r *http.Request) {
	sections, err := h.resolver.Admin(r.Context(), middleware.GetUserID(r), nil)
	if err != nil {
		if errors.Is(err, content.ErrForbidden) {
			http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
			return
		}
		logAndInternalError(w, r, "failed to load content for editor", "error", err)
		return
	}

	byKey := make(map[string]content.Section, len(sections))
	for _, s := range sections {
		byKey[s.SectionKey] = s
	}

	editor := make([]EditorSection, 0, len(content.Catalogue))
	for _, spec := range content.Catalogue {
		s, ok := byKey[spec.Key]
		editor = append(editor, EditorSection{
			Spec:      spec,
			Missing:   !ok,
			Values:    s.Content,
			Version:   s.Version,
			UpdatedAt: s.UpdatedAt,
		})
	}

	h.page(w, r, "admin/content", "Content Management", map[string]any{"Sections": editor})
}

// UpdateContent saves the changed fields of one section.
// POST /admin/content/{key}
func (h *AdminHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminContent) {
		return
	}

	key := chi.URLParam(r, "key")
	spec, ok := content.FindSpec(key)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminContent, "Unknown content section")
		return
	}

	actorID := middleware.GetUserID(r)
	current, err := h.resolver.Admin(r.Context(), actorID, &key)
	if err != nil {
		h.contentError(w, r, err)
		return
	}
	if len(current) == 0 {
		h.contentError(w, r, content.ErrSectionNotFound)
		return
	}

	submitted := make(map[string]string, len(spec.Fields))
	for _, f := range spec.Fields {
		if vals, ok := r.PostForm[f.Key]; ok && len(vals) > 0 {
			submitted[f.Key] = vals[0]
		}
	}
	changed := content.ChangedFields(spec, current[0].Content, submitted)
	if len(changed) == 0 {
		flashAndRedirect(w, r, h.renderer, redirectAdminContent, "No changes to save", flashTypeInfo)
		return
	}

	var expected *int64
	if v, err := strconv.ParseInt(r.PostFormValue("version"), 10, 64); err == nil {
		expected = &v
	}

	updated, err := h.mutator.Apply(r.Context(), actorID, key, changed, expected)
	if err != nil {
		h.contentError(w, r, err)
		return
	}

	fields := make([]string, 0, len(changed))
	for k := range changed {
		fields = append(fields, k)
	}
	_ = h.eventService.LogContentEvent(r.Context(), "Content section updated", actorID, middleware.ClientIP(r), map[string]any{
		"section_key": key,
		"fields":      fields,
		"version":     updated.Version,
	})

	flashSuccess(w, r, h.renderer, redirectAdminContent, spec.Title+" updated successfully")
}

func (h *AdminHandler) contentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrForbidden):
		flashError(w, r, h.renderer, RouteRoot, "Admin access required")
	case errors.Is(err, content.ErrSectionNotFound):
		flashError(w, r, h.renderer, redirectAdminContent, "This section does not exist")
	case errors.Is(err, content.ErrVersionConflict):
		flashError(w, r, h.renderer, redirectAdminContent, "This section was changed by someone else. Review the latest version and try again.")
	case errors.Is(err, content.ErrInvalidEdit):
		flashError(w, r, h.renderer, redirectAdminContent, "One of the fields is too long")
	default:
		slog.ErrorContext(r.Context(), "failed to update content", "error", err)
		flashError(w, r, h.renderer, redirectAdminContent, "Failed to save changes")
	}
}

// SlotView pairs an image slot with its most recent upload.
type SlotView struct {
	Slot  model.ImageSlot
	Image *store.Image
}

// Images renders the image slots page.
func (h *AdminHandler) Images(w http.ResponseWriter, r *http.Request) {
	images, err := h.queries.ListImages(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list images", "error", err)
	}

	// ListImages is newest first; keep the first row per slot.
	latest := make(map[string]*store.Image, len(images))
	for i := range images {
		if _, seen := latest[images[i].Slot]; !seen {
			latest[images[i].Slot] = &images[i]
		}
	}

	slots := make([]SlotView, 0, len(model.ImageSlots))
	for _, s := range model.ImageSlots {
		slots = append(slots, SlotView{Slot: s, Image: latest[s.Name]})
	}

	h.page(w, r, "admin/images", "Image Management", map[string]any{"Slots": slots})
}

// UploadImage stores an image for one slot.
// POST /admin/images/{slot}
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequest)
	if err := r.ParseMultipartForm(maxUploadRequest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			flashError(w, r, h.renderer, redirectAdminImages, uploadErrorMessage(media.ErrTooLarge))
			return
		}
		flashError(w, r, h.renderer, redirectAdminImages, "Please select an image file")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminImages, "Please select an image file")
		return
	}
	defer func() { _ = file.Close() }()

	actorID := middleware.GetUserID(r)
	result, err := h.uploader.Upload(r.Context(), actorID, media.Upload{
		Slot:     slot,
		Filename: header.Filename,
		MimeType: header.Header.Get(headerContentType),
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		msg := uploadErrorMessage(err)
		if msg == "" {
			slog.ErrorContext(r.Context(), "image upload failed", "error", err, "slot", slot)
			msg = "Failed to upload image"
		}
		flashError(w, r, h.renderer, redirectAdminImages, msg)
		return
	}

	_ = h.eventService.LogMediaEvent(r.Context(), "Image uploaded", actorID, middleware.ClientIP(r), map[string]any{
		"slot": result.Slot,
		"path": result.Path,
	})

	flashSuccess(w, r, h.renderer, redirectAdminImages, "Image uploaded successfully")
}

// uploadErrorMessage returns the user-facing message for an upload error,
// or "" when the error is unexpected.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, media.ErrNotImage):
		return "Please upload an image file"
	case errors.Is(err, media.ErrTooLarge):
		return "Image must be less than 5MB"
	case errors.Is(err, media.ErrUnknownSlot):
		return "Invalid image slot"
	case errors.Is(err, media.ErrForbidden):
		return "Admin access required"
	default:
		return ""
	}
}

// Users renders the admin roster page.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	admins, err := h.roster.List(r.Context(), actorID)
	if err != nil {
		if errors.Is(err, roster.ErrForbidden) {
			http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
			return
		}
		logAndInternalError(w, r, "failed to list admins", "error", err)
		return
	}

	h.page(w, r, "admin/users", "Manage Admins", map[string]any{
		"Admins":        admins,
		"CurrentUserID": actorID,
	})
}

// AddAdmin grants the admin role to an existing account.
// POST /admin/users/add
func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	actorID := middleware.GetUserID(r)
	admin, err := h.roster.Add(r.Context(), actorID, r.PostFormValue("email"))
	if err != nil {
		h.rosterFlash(w, r, err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), "Admin access granted", actorID, middleware.ClientIP(r), map[string]any{
		"target_user_id": admin.UserID,
		"email":          admin.Email,
	})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Admin added successfully")
}

// RemoveAdmin revokes an admin grant.
// POST /admin/users/remove
func (h *AdminHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	actorID := middleware.GetUserID(r)
	target := r.PostFormValue("user_id")
	if err := h.roster.Remove(r.Context(), actorID, target); err != nil {
		h.rosterFlash(w, r, err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), "Admin access revoked", actorID, middleware.ClientIP(r), map[string]any{
		"target_user_id": target,
	})
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Admin removed successfully")
}

func (h *AdminHandler) rosterFlash(w http.ResponseWriter, r *http.Request, err error) {
	status, message := rosterErrorResponse(err)
	switch status {
	case http.StatusForbidden:
		flashError(w, r, h.renderer, RouteRoot, "Admin access required")
	case http.StatusInternalServerError:
		slog.ErrorContext(r.Context(), "admin roster operation failed", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsers, "Something went wrong. Please try again.")
	default:
		flashError(w, r, h.renderer, redirectAdminUsers, message)
	}
}

// Events renders the most recent event log entries.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.RecentEvents(r.Context(), eventsPageLimit)
	if err != nil {
		logAndInternalError(w, r, "failed to list events", "error", err)
		return
	}

	h.page(w, r, "admin/events", "Event Log", map[string]any{
		"Events":        events,
		"RetentionDays": h.retentionDays,
	})
}
