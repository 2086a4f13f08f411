// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/render"
	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/session"
	"github.com/olegiv/firmsite/internal/store"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "This email is already registered. Please sign in instead."
	msgAccountCreated     = "Account created! An admin will need to grant you access."
	msgLoginSuccessful    = "Login successful"
)

// credentialError is a sign-in failure safe to show to the caller.
type credentialError struct {
	status  int
	message string
}

func (e *credentialError) Error() string { return e.message }

// AuthHandler handles sign-in, sign-up and bearer token routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	tokens          *auth.TokenIssuer
	resolver        *content.Resolver
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, tokens *auth.TokenIssuer, resolver *content.Resolver) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		tokens:          tokens,
		resolver:        resolver,
	}
}

// LoginForm renders the sign-in and sign-up page.
// Admins who are already signed in go straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		isAdmin, err := h.queries.HasRole(r.Context(), store.HasRoleParams{UserID: user.ID, Role: store.RoleAdmin})
		if err == nil && isAdmin {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, r, http.StatusOK, nil, nil)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	renderPage(w, r, h.renderer, status, "auth/login", render.TemplateData{
		Title:   "Admin Login",
		Content: h.resolver.Lookup(r.Context()),
		Form:    form,
		Errors:  errs,
	})
}

// Login handles the sign-in form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	errs := map[string]string{}
	if err := auth.ValidateEmail(email); err != nil {
		errs["signin_email"] = "Please enter a valid email address"
	}
	if password == "" {
		errs["signin_password"] = "Password is required"
	}
	if len(errs) > 0 {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, map[string]string{"signin_email": email}, errs)
		return
	}

	user, err := h.authenticate(r, email, password)
	if err != nil {
		var ce *credentialError
		if errors.As(err, &ce) {
			flashError(w, r, h.renderer, redirectLogin, ce.message)
			return
		}
		logAndInternalError(w, r, "login failed", "error", err)
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	isAdmin, err := h.queries.HasRole(r.Context(), store.HasRoleParams{UserID: user.ID, Role: store.RoleAdmin})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to check admin role after login", "error", err, "user_id", user.ID)
	}
	if isAdmin {
		flashSuccess(w, r, h.renderer, redirectAdmin, msgLoginSuccessful)
		return
	}
	flashAndRedirect(w, r, h.renderer, RouteRoot, "Signed in. An admin will need to grant you access to the admin panel.", flashTypeInfo)
}

// Signup creates an account. New accounts never hold the admin role.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	errs := map[string]string{}
	if err := auth.ValidateEmail(email); err != nil {
		errs["signup_email"] = "Please enter a valid email address"
	}
	if err := auth.ValidatePassword(password); err != nil {
		errs["signup_password"] = fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(errs) > 0 {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, map[string]string{"signup_email": email}, errs)
		return
	}

	user, err := h.createAccount(r.Context(), email, password)
	if errors.Is(err, errEmailTaken) {
		flashError(w, r, h.renderer, redirectLogin, msgEmailTaken)
		return
	}
	if err != nil {
		logAndInternalError(w, r, "failed to create account", "error", err)
		return
	}

	slog.InfoContext(r.Context(), "account created", "user_id", user.ID, "category", model.EventCategoryAuth)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Account created", user.ID, middleware.ClientIP(r), map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectLogin, msgAccountCreated)
}

var errEmailTaken = errors.New("email already registered")

func (h *AuthHandler) createAccount(ctx context.Context, email, password string) (store.User, error) {
	if _, err := h.queries.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, errEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// A concurrent sign-up for the same address hit the unique index.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.User{}, errEmailTaken
		}
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetString(r.Context(), session.KeyUserID)
	if userID != "" {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", userID, middleware.ClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}

	slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out", flashTypeInfo)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Token exchanges an email and password for a bearer token.
// POST /auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authenticate(r, email, req.Password)
	if err != nil {
		var ce *credentialError
		if errors.As(err, &ce) {
			writeJSONError(w, ce.status, ce.message)
			return
		}
		slog.ErrorContext(r.Context(), "token request failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", "error", err, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

// authenticate checks email and password against the account table and
// the lockout state. Failures the caller may see are *credentialError.
func (h *AuthHandler) authenticate(r *http.Request, email, password string) (store.User, error) {
	ctx := r.Context()
	clientIP := middleware.ClientIP(r)
	meta := func(extra map[string]any) map[string]any {
		m := service.ClientMetadata(r.UserAgent())
		m["email"] = email
		maps.Copy(m, extra)
		return m
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login attempt on locked account", "", clientIP, meta(nil))
			return store.User{}, &credentialError{
				status:  http.StatusTooManyRequests,
				message: "Account temporarily locked. Try again in " + formatDuration(remaining) + ".",
			}
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return store.User{}, fmt.Errorf("looking up user: %w", err)
		}
		slog.DebugContext(ctx, "login attempt for non-existent user", "email", email)
		auth.BurnPasswordCheck(password)
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed: user not found", "", clientIP, meta(nil))
		// Record failed attempt even for non-existent users to prevent enumeration
		return store.User{}, h.failedAttempt(ctx, email, "", clientIP, meta)
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed: invalid password", user.ID, clientIP, meta(nil))
		return store.User{}, h.failedAttempt(ctx, email, user.ID, clientIP, meta)
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := h.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to update last login time", "error", err, "user_id", user.ID)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID, "category", model.EventCategoryAuth)
	_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", user.ID, clientIP, meta(nil))
	return user, nil
}

func (h *AuthHandler) failedAttempt(ctx context.Context, email, userID, clientIP string, meta func(map[string]any) map[string]any) error {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Account locked due to failed attempts", userID, clientIP, meta(map[string]any{"duration": lockDuration.String()}))
			return &credentialError{
				status:  http.StatusTooManyRequests,
				message: "Too many failed attempts. Try again in " + formatDuration(lockDuration) + ".",
			}
		}
		if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			return &credentialError{
				status:  http.StatusUnauthorized,
				message: fmt.Sprintf("%s. %d attempts remaining.", msgInvalidCredentials, remaining),
			}
		}
	}
	return &credentialError{status: http.StatusUnauthorized, message: msgInvalidCredentials}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
