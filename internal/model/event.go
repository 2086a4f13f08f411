// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines constants and small value types shared across
// the site: event levels, image slots and case inquiry options.
package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryUser    = "user"
	EventCategoryMedia   = "media"
	EventCategoryInquiry = "inquiry"
	EventCategorySystem  = "system"
	EventCategoryCache   = "cache"
)
