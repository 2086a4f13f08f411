// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"

	"github.com/olegiv/firmsite/internal/content"
)

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"markdown":   content.RenderMarkdown,
		"telHref":    telHref,
		"multiline":  multiline,
		"formatSize": formatSize,
		"add": func(a, b int) int {
			return a + b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"isDev": func() bool {
			return r.isDev
		},
	}
}

// telHref builds a tel: URL from a display phone number.
func telHref(phone string) template.URL {
	var b strings.Builder
	for _, c := range phone {
		if unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	return template.URL("tel:" + b.String())
}

// multiline escapes a value for a textarea body. Newlines become character
// references so the blank-line compaction in RenderStatus leaves them alone.
func multiline(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "&#10;"))
}

// formatSize renders a byte count for humans.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
