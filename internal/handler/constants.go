// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteAbout is the attorney profile page.
	RouteAbout = "/about"
	// RouteServices is the practice areas page.
	RouteServices = "/services"
	// RouteTestimonials is the results and testimonials page.
	RouteTestimonials = "/testimonials"
	// RouteContact is the contact page and case review form.
	RouteContact = "/contact"

	// RouteAdmin is the admin panel prefix.
	RouteAdmin = "/admin"
	// RouteLogin is the login route, relative to RouteAdmin.
	RouteLogin = "/login"
	// RouteLogout is the logout route, relative to RouteAdmin.
	RouteLogout = "/logout"
	// RouteContent is the content editor route, relative to RouteAdmin.
	RouteContent = "/content"
	// RouteImages is the image slots route, relative to RouteAdmin.
	RouteImages = "/images"
	// RouteUsers is the admin roster route, relative to RouteAdmin.
	RouteUsers = "/users"
	// RouteEvents is the event log route, relative to RouteAdmin.
	RouteEvents = "/events"

	// RouteSignup is the account creation route.
	RouteSignup = "/auth/signup"
	// RouteToken is the bearer token route.
	RouteToken = "/auth/token"
	// RouteAdminUsers is the admin management endpoint.
	RouteAdminUsers = "/functions/admin-users"

	// RouteParamKey is the section key parameter pattern.
	RouteParamKey = "/{key}"
	// RouteParamSlot is the image slot parameter pattern.
	RouteParamSlot = "/{slot}"
)

// Redirect targets.
const (
	redirectAdmin        = "/admin"
	redirectLogin        = "/admin/login"
	redirectAdminContent = "/admin/content"
	redirectAdminImages  = "/admin/images"
	redirectAdminUsers   = "/admin/users"
	redirectContact      = "/contact"
)

// HTTP header values.
const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// maxJSONBody bounds decoded JSON request bodies.
const maxJSONBody = 1 << 20
