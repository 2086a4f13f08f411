// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestIsKnownSlot(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{SlotHeroBackground, true},
		{SlotAttorneyPhoto, true},
		{SlotLogo, true},
		{"favicon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKnownSlot(tt.name); got != tt.want {
				t.Errorf("IsKnownSlot(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsInjuryType(t *testing.T) {
	if !IsInjuryType("Slip & Fall") {
		t.Error("Slip & Fall should be accepted")
	}
	if IsInjuryType("slip & fall") {
		t.Error("match should be exact")
	}
	if len(InjuryTypes) != 8 {
		t.Errorf("len(InjuryTypes) = %d, want 8", len(InjuryTypes))
	}
}

func TestMaxImageSize(t *testing.T) {
	if MaxImageSize != 5242880 {
		t.Errorf("MaxImageSize = %d, want 5 MiB", MaxImageSize)
	}
}
