// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/roster"
	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/store"
)

// Admin management actions.
const (
	actionList   = "list"
	actionAdd    = "add"
	actionRemove = "remove"
)

// AdminUsersHandler serves the admin management endpoint used by API
// clients holding a bearer token.
type AdminUsersHandler struct {
	bearer       *middleware.BearerAuth
	roster       *roster.Service
	eventService *service.EventService
}

// NewAdminUsersHandler creates a new AdminUsersHandler.
func NewAdminUsersHandler(db *sql.DB, bearer *middleware.BearerAuth, r *roster.Service) *AdminUsersHandler {
	return &AdminUsersHandler{
		bearer:       bearer,
		roster:       r,
		eventService: service.NewEventService(db),
	}
}

type adminUsersRequest struct {
	Action string `json:"action"`
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// ServeHTTP handles POST /functions/admin-users.
// The caller is authenticated and authorized on every request before the
// body is read.
func (h *AdminUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(r.Context(), "admin users handler panic", "panic", rec, "category", model.EventCategoryUser)
			writeJSONError(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}
	}()

	caller, err := h.bearer.Identify(r)
	if err != nil {
		if !errors.Is(err, middleware.ErrNoCredential) && !errors.Is(err, auth.ErrInvalidToken) {
			slog.ErrorContext(r.Context(), "bearer lookup failed", "error", err, "category", model.EventCategoryAuth)
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.roster.Authorize(r.Context(), caller.ID); err != nil {
		h.writeRosterError(w, r, err)
		return
	}

	var req adminUsersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case actionList:
		h.list(w, r, caller)
	case actionAdd:
		h.add(w, r, caller, req.Email)
	case actionRemove:
		h.remove(w, r, caller, req.UserID)
	default:
		writeJSONError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (h *AdminUsersHandler) list(w http.ResponseWriter, r *http.Request, caller store.User) {
	admins, err := h.roster.List(r.Context(), caller.ID)
	if err != nil {
		h.writeRosterError(w, r, err)
		return
	}
	if admins == nil {
		admins = []roster.Admin{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

func (h *AdminUsersHandler) add(w http.ResponseWriter, r *http.Request, caller store.User, email string) {
	admin, err := h.roster.Add(r.Context(), caller.ID, email)
	if err != nil {
		h.writeRosterError(w, r, err)
		return
	}
	_ = h.eventService.LogUserEvent(r.Context(), "Admin access granted", caller.ID, middleware.ClientIP(r), map[string]any{
		"target_user_id": admin.UserID,
		"email":          admin.Email,
	})
	writeJSONSuccess(w, map[string]any{"message": "Admin added successfully"})
}

func (h *AdminUsersHandler) remove(w http.ResponseWriter, r *http.Request, caller store.User, userID string) {
	if err := h.roster.Remove(r.Context(), caller.ID, userID); err != nil {
		h.writeRosterError(w, r, err)
		return
	}
	_ = h.eventService.LogUserEvent(r.Context(), "Admin access revoked", caller.ID, middleware.ClientIP(r), map[string]any{
		"target_user_id": userID,
	})
	writeJSONSuccess(w, map[string]any{"message": "Admin removed successfully"})
}

func (h *AdminUsersHandler) writeRosterError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := rosterErrorResponse(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "admin roster operation failed", "error", err, "category", model.EventCategoryUser)
	}
	writeJSONError(w, status, message)
}

// rosterErrorResponse maps roster errors to the endpoint's status codes and
// messages.
func rosterErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, roster.ErrForbidden):
		return http.StatusForbidden, "Forbidden - Admin access required"
	case errors.Is(err, roster.ErrEmailRequired):
		return http.StatusBadRequest, "Email is required"
	case errors.Is(err, roster.ErrNotFound):
		return http.StatusNotFound, "User not found. They must sign up first."
	case errors.Is(err, roster.ErrAlreadyAdmin):
		return http.StatusBadRequest, "User is already an admin"
	case errors.Is(err, roster.ErrUserIDRequired):
		return http.StatusBadRequest, "User ID is required"
	case errors.Is(err, roster.ErrSelfRemoval):
		return http.StatusBadRequest, "Cannot remove your own admin access"
	case errors.Is(err, roster.ErrLastAdmin):
		return http.StatusBadRequest, "Cannot remove the last admin"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
