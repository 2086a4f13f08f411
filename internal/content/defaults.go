// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// Section keys.
const (
	SectionHero     = "hero"
	SectionAttorney = "attorney"
	SectionContact  = "contact"
	SectionFirm     = "firm"
)

// Defaults are rendered whenever a field has no stored value.
var Defaults = map[string]map[string]string{
	SectionHero: {
		"headline":    "Injured? We Fight For The",
		"subheadline": "Aggressive personal injury attorneys who take on insurance companies and win.",
		"cta_primary": "Get Free Case Review",
	},
	SectionAttorney: {
		"name":        "Lead Attorney",
		"experience":  "25+",
		"description": "Our attorneys have dedicated their careers to fighting for injury victims. With over $500 million recovered, we have the experience and resources to take on any case, no matter how complex.",
	},
	SectionContact: {
		"phone":   "1-800-555-1234",
		"email":   "info@justiceandassociates.com",
		"address": "1000 Justice Plaza, Suite 500",
		"city":    "Los Angeles",
		"state":   "CA",
		"zip":     "90001",
	},
	SectionFirm: {
		"name":    "Justice & Associates",
		"tagline": "No Fee Unless We Win",
	},
}

// Page-specific fallbacks that differ from Defaults.
const (
	HeaderFirmName = "JUSTICE & ASSOCIATES"

	AboutAttorneyDescription = "Our lead attorneys began their careers defending insurance companies. " +
		"They saw firsthand how insurers minimize claims and pressure victims into accepting lowball offers. " +
		"They left to fight on the other side."
)
