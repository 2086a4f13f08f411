// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/olegiv/firmsite/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizePNG(t *testing.T) {
	p := NewProcessor()
	res, err := p.Normalize(bytes.NewReader(encodePNG(t, createTestImage(40, 20))))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 40 || res.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 40x20", res.Width, res.Height)
	}
	if res.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, model.MimeTypePNG)
	}
	if len(res.Data) == 0 {
		t.Error("Data is empty")
	}
}

func TestNormalizeDownsizes(t *testing.T) {
	p := &Processor{quality: defaultQuality, maxDimension: 16}
	res, err := p.Normalize(bytes.NewReader(encodePNG(t, createTestImage(64, 32))))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 16 || res.Height != 8 {
		t.Errorf("dimensions = %dx%d, want 16x8", res.Width, res.Height)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("definitely not an image")},
		{"tiff", []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}},
		{"truncated png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}},
		{"empty", nil},
	}

	p := NewProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Normalize(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Normalize() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
		{"webp", model.MimeTypeWebP},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 10, 4}, {2, 10, 4}, {3, 10, 4}, {4, 10, 4},
		{5, 4, 10}, {6, 4, 10}, {7, 4, 10}, {8, 4, 10},
		{0, 10, 4}, {9, 10, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("orientation_%d", tt.orientation), func(t *testing.T) {
			b := applyOrientation(createTestImage(10, 4), tt.orientation).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
