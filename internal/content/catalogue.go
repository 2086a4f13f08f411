// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// Input types for editor fields.
const (
	InputText     = "text"
	InputTextarea = "textarea"
)

// FieldSpec describes one editable field.
type FieldSpec struct {
	Key   string
	Label string
	Type  string
}

// SectionSpec describes an editable section in the admin panel.
type SectionSpec struct {
	Key         string
	Title       string
	Description string
	Fields      []FieldSpec
}

// Catalogue lists the editable sections in display order.
var Catalogue = []SectionSpec{
	{
		Key:         SectionHero,
		Title:       "Hero Section",
		Description: "Main headline and call-to-action on the homepage",
		Fields: []FieldSpec{
			{Key: "headline", Label: "Headline", Type: InputText},
			{Key: "subheadline", Label: "Subheadline", Type: InputTextarea},
			{Key: "cta_primary", Label: "Primary Button Text", Type: InputText},
			{Key: "cta_secondary", Label: "Secondary Button Text", Type: InputText},
		},
	},
	{
		Key:         SectionAttorney,
		Title:       "Attorney Section",
		Description: "Information about the lead attorney",
		Fields: []FieldSpec{
			{Key: "name", Label: "Attorney Name", Type: InputText},
			{Key: "title", Label: "Title", Type: InputText},
			{Key: "experience", Label: "Experience", Type: InputText},
			{Key: "description", Label: "Description", Type: InputTextarea},
		},
	},
	{
		Key:         SectionContact,
		Title:       "Contact Information",
		Description: "Office contact details shown across the site",
		Fields: []FieldSpec{
			{Key: "phone", Label: "Phone Number", Type: InputText},
			{Key: "email", Label: "Email Address", Type: InputText},
			{Key: "address", Label: "Street Address", Type: InputText},
			{Key: "city", Label: "City", Type: InputText},
			{Key: "state", Label: "State", Type: InputText},
			{Key: "zip", Label: "ZIP Code", Type: InputText},
		},
	},
	{
		Key:         SectionFirm,
		Title:       "Firm Information",
		Description: "General firm branding and taglines",
		Fields: []FieldSpec{
			{Key: "name", Label: "Firm Name", Type: InputText},
			{Key: "tagline", Label: "Tagline", Type: InputText},
		},
	},
}

// FindSpec returns the catalogue entry for key.
func FindSpec(key string) (SectionSpec, bool) {
	for _, s := range Catalogue {
		if s.Key == key {
			return s, true
		}
	}
	return SectionSpec{}, false
}

// SeedSections returns the initial field values for every catalogued
// section, taken from Defaults.
func SeedSections() map[string]map[string]string {
	out := make(map[string]map[string]string, len(Catalogue))
	for _, spec := range Catalogue {
		fields := make(map[string]string, len(Defaults[spec.Key]))
		for k, v := range Defaults[spec.Key] {
			fields[k] = v
		}
		out[spec.Key] = fields
	}
	return out
}

// ChangedFields returns the catalogued fields of spec whose submitted value
// differs from current. Unknown form keys are ignored.
func ChangedFields(spec SectionSpec, current Fields, submitted map[string]string) Fields {
	changed := Fields{}
	for _, f := range spec.Fields {
		v, ok := submitted[f.Key]
		if !ok {
			continue
		}
		if v != current[f.Key] {
			changed[f.Key] = v
		}
	}
	return changed
}
