// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// Lookup indexes resolved sections by key for page rendering.
type Lookup map[string]Fields

// NewLookup builds a Lookup from public sections.
func NewLookup(sections []PublicSection) Lookup {
	l := make(Lookup, len(sections))
	for _, s := range sections {
		l[s.SectionKey] = s.Content
	}
	return l
}

// Field returns the stored value, or fallback when the section is missing,
// the field is missing, or the stored value is empty.
func (l Lookup) Field(section, field, fallback string) string {
	if v := l[section][field]; v != "" {
		return v
	}
	return fallback
}

// Get returns the stored value or the site-wide default for the field.
// The secondary hero call to action defaults to the resolved phone number.
func (l Lookup) Get(section, field string) string {
	if section == SectionHero && field == "cta_secondary" {
		return l.Field(section, field, "Call Now: "+l.Get(SectionContact, "phone"))
	}
	return l.Field(section, field, Defaults[section][field])
}

// Section returns a copy of one section's fields; empty when absent.
func (l Lookup) Section(key string) Fields {
	return l[key].Clone()
}
