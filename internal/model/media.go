// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize int64 = 5 * 1024 * 1024

// Image slots the site templates know about.
const (
	SlotHeroBackground = "hero-background"
	SlotAttorneyPhoto  = "attorney-photo"
	SlotLogo           = "logo"
)

// ImageSlot describes an upload target in the admin panel.
type ImageSlot struct {
	Name        string
	Label       string
	Description string
}

// ImageSlots lists the known slots in display order.
var ImageSlots = []ImageSlot{
	{Name: SlotHeroBackground, Label: "Hero Background", Description: "Main background image for the homepage hero section"},
	{Name: SlotAttorneyPhoto, Label: "Attorney Photo", Description: "Professional photo of the lead attorney"},
	{Name: SlotLogo, Label: "Logo", Description: "Firm logo displayed in header and footer"},
}

// IsKnownSlot reports whether name is one of ImageSlots.
func IsKnownSlot(name string) bool {
	for _, s := range ImageSlots {
		if s.Name == name {
			return true
		}
	}
	return false
}
