// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/firmsite/internal/store"
)

// GateState is the admin gate's view of the current visitor.
type GateState int

const (
	StateUnknown GateState = iota
	StateLoading
	StateAnonymous
	StateNonAdmin
	StateAdmin
)

func (s GateState) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateNonAdmin:
		return "authenticated-non-admin"
	case StateAdmin:
		return "authenticated-admin"
	default:
		return fmt.Sprintf("GateState(%d)", int(s))
	}
}

// Terminal reports whether s is a resolved state.
func (s GateState) Terminal() bool {
	return s == StateAnonymous || s == StateNonAdmin || s == StateAdmin
}

// ErrInvalidTransition is returned for gate transitions outside
// unknown -> loading -> {anonymous, non-admin, admin}.
var ErrInvalidTransition = errors.New("invalid gate transition")

// Transition moves the gate from one state to the next.
func Transition(from, to GateState) (GateState, error) {
	switch {
	case from == StateUnknown && to == StateLoading:
		return to, nil
	case from == StateLoading && to.Terminal():
		return to, nil
	default:
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
}

// Decision is what the gate does with a request in a given state.
type Decision int

const (
	DecisionWait Decision = iota
	DecisionRedirectLogin
	DecisionRedirectHome
	DecisionRender
)

// Decide maps a gate state to its access decision.
func Decide(s GateState) Decision {
	switch s {
	case StateAdmin:
		return DecisionRender
	case StateNonAdmin:
		return DecisionRedirectHome
	case StateAnonymous:
		return DecisionRedirectLogin
	default:
		return DecisionWait
	}
}

// RoleChecker reports whether an account holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, arg store.HasRoleParams) (bool, error)
}

// AdminGate guards the admin UI routes. It is a navigation convenience;
// services re-check the role on every privileged operation.
type AdminGate struct {
	roles     RoleChecker
	loginPath string
	homePath  string
}

// NewAdminGate creates a gate redirecting to loginPath and homePath.
func NewAdminGate(roles RoleChecker, loginPath, homePath string) *AdminGate {
	return &AdminGate{roles: roles, loginPath: loginPath, homePath: homePath}
}

// Resolve runs the state machine for r. The user must already be loaded
// into the context by LoadUser. A failed role lookup leaves the gate in
// StateLoading.
func (g *AdminGate) Resolve(r *http.Request) GateState {
	state, _ := Transition(StateUnknown, StateLoading)

	user := GetUser(r)
	if user == nil {
		state, _ = Transition(state, StateAnonymous)
		return state
	}

	ok, err := g.roles.HasRole(r.Context(), store.HasRoleParams{UserID: user.ID, Role: store.RoleAdmin})
	if err != nil {
		slog.WarnContext(r.Context(), "admin gate role lookup failed", "error", err, "user_id", user.ID, "category", "auth")
		return state
	}
	if ok {
		state, _ = Transition(state, StateAdmin)
	} else {
		state, _ = Transition(state, StateNonAdmin)
	}
	return state
}

// Middleware applies Decide to every request.
func (g *AdminGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := g.Resolve(r)
		switch Decide(state) {
		case DecisionRender:
			next.ServeHTTP(w, r)
		case DecisionRedirectLogin:
			http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
		case DecisionRedirectHome:
			slog.WarnContext(r.Context(), "admin access denied", "user_id", GetUserID(r), "path", r.URL.Path, "category", "auth")
			http.Redirect(w, r, g.homePath, http.StatusSeeOther)
		default:
			writeLoading(w)
		}
	})
}

const loadingPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><meta http-equiv="refresh" content="2">
<title>Loading</title></head>
<body><p>Loading&hellip;</p></body></html>
`

func writeLoading(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "2")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(loadingPage))
}
