// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates and normalizes uploaded images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/firmsite/internal/model"
)

// ErrUnsupportedFormat is returned when the data is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

const (
	defaultQuality      = 90
	defaultMaxDimension = 4096
)

// Result is a decoded and re-encoded image.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
}

// Processor decodes uploads, applies EXIF orientation, downsizes oversized
// images and strips metadata by re-encoding.
type Processor struct {
	quality      int
	maxDimension int
}

// NewProcessor creates a Processor with default quality and size limits.
func NewProcessor() *Processor {
	return &Processor{quality: defaultQuality, maxDimension: defaultMaxDimension}
}

// Normalize reads an image from r. WebP input is validated and kept
// byte-for-byte since there is no pure Go WebP encoder.
func (p *Processor) Normalize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if format == "webp" {
		b := img.Bounds()
		return &Result{Data: data, Width: b.Dx(), Height: b.Dy(), MimeType: model.MimeTypeWebP}, nil
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if b := img.Bounds(); b.Dx() > p.maxDimension || b.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	encoded, err := encodeImage(img, format, p.quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:     encoded,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: formatToMimeType(format),
	}, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation maps EXIF orientation values 2-8 to the matching
// flip and rotation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// detectFormat sniffs the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return model.MimeTypeJPEG
	}
}
