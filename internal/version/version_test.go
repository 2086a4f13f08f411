// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestInfoLabel(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"tagged", Info{Version: "v1.0.0"}, "v1.0.0"},
		{"zero value", Info{}, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}
	want := "firmsite v1.0.0 (commit abc1234, built 2025-01-30T12:00:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	var zero Info
	if got := zero.String(); got != "firmsite dev (commit unknown, built unknown)" {
		t.Errorf("zero String() = %q", got)
	}
}
