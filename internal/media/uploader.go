// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media handles admin image uploads into slot-named objects.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/firmsite/internal/imaging"
	"github.com/olegiv/firmsite/internal/model"
	"github.com/olegiv/firmsite/internal/storage"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/util"
)

var (
	ErrForbidden   = errors.New("admin access required")
	ErrNotImage    = errors.New("file is not an image")
	ErrTooLarge    = errors.New("image exceeds 5 MiB")
	ErrUnknownSlot = errors.New("invalid image slot")
)

// Store is the subset of store.Queries the uploader needs.
type Store interface {
	HasRole(ctx context.Context, arg store.HasRoleParams) (bool, error)
	UpsertImage(ctx context.Context, arg store.UpsertImageParams) (store.Image, error)
}

// Upload describes one incoming file.
type Upload struct {
	Slot     string
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Result is a stored image.
type Result struct {
	Slot   string `json:"slot"`
	Path   string `json:"path"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Uploader validates, normalizes and stores images.
type Uploader struct {
	store     Store
	bucket    storage.Bucket
	processor *imaging.Processor
	logger    *slog.Logger
	now       func() time.Time
}

// NewUploader creates an Uploader writing into bucket.
func NewUploader(s Store, bucket storage.Bucket, logger *slog.Logger) *Uploader {
	return &Uploader{
		store:     s,
		bucket:    bucket,
		processor: imaging.NewProcessor(),
		logger:    logger,
		now:       time.Now,
	}
}

// Validate checks the declared upload metadata. It runs before any store or
// bucket call.
func Validate(u Upload) error {
	if !strings.HasPrefix(strings.ToLower(u.MimeType), "image/") {
		return ErrNotImage
	}
	if u.Size > model.MaxImageSize {
		return ErrTooLarge
	}
	if !model.IsKnownSlot(u.Slot) && !util.IsValidSlug(u.Slot) {
		return ErrUnknownSlot
	}
	return nil
}

// Upload stores u as <slot>.<ext> for actorID, replacing any previous object
// on that path, and returns its public URL. The content sections are not
// updated.
func (up *Uploader) Upload(ctx context.Context, actorID string, u Upload) (Result, error) {
	if err := Validate(u); err != nil {
		return Result{}, err
	}

	if actorID == "" {
		return Result{}, ErrForbidden
	}
	ok, err := up.store.HasRole(ctx, store.HasRoleParams{UserID: actorID, Role: store.RoleAdmin})
	if err != nil {
		return Result{}, fmt.Errorf("checking admin role: %w", err)
	}
	if !ok {
		return Result{}, ErrForbidden
	}

	// The declared size is not trusted.
	data, err := io.ReadAll(io.LimitReader(u.Body, model.MaxImageSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > model.MaxImageSize {
		return Result{}, ErrTooLarge
	}

	img, err := up.processor.Normalize(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return Result{}, ErrNotImage
		}
		return Result{}, err
	}
	if int64(len(img.Data)) > model.MaxImageSize {
		return Result{}, ErrTooLarge
	}

	path := u.Slot + objectExtension(u.Filename, img.MimeType)
	if err := up.bucket.Put(ctx, path, img.Data); err != nil {
		return Result{}, fmt.Errorf("storing %s: %w", path, err)
	}

	url := up.bucket.URL(path)
	if _, err := up.store.UpsertImage(ctx, store.UpsertImageParams{
		ID:         uuid.NewString(),
		Slot:       u.Slot,
		Path:       path,
		URL:        url,
		MimeType:   img.MimeType,
		Size:       int64(len(img.Data)),
		Width:      int64(img.Width),
		Height:     int64(img.Height),
		UploadedBy: actorID,
		CreatedAt:  up.now().UTC(),
	}); err != nil {
		// The object is already public; only the dashboard counter is affected.
		up.logger.Warn("failed to record uploaded image", "error", err, "path", path, "category", model.EventCategoryMedia)
	}

	return Result{Slot: u.Slot, Path: path, URL: url, Width: img.Width, Height: img.Height}, nil
}

var extensionsByMime = map[string][]string{
	model.MimeTypeJPEG: {".jpg", ".jpeg"},
	model.MimeTypePNG:  {".png"},
	model.MimeTypeGIF:  {".gif"},
	model.MimeTypeWebP: {".webp"},
}

// objectExtension keeps the original file extension when it matches the
// detected format, otherwise uses the format's canonical extension.
func objectExtension(filename, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := extensionsByMime[mimeType]
	for _, a := range allowed {
		if ext == a {
			return ext
		}
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return ".bin"
}
