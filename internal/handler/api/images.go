// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/firmsite/internal/media"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/model"
)

const maxUploadRequest = model.MaxImageSize + 1<<20

// UploadImage handles POST /api/v1/admin/images with a multipart "file"
// and "slot" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequest)
	if err := r.ParseMultipartForm(maxUploadRequest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteTooLarge(w, "Image must be less than 5MB")
			return
		}
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file provided. Use the 'file' field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	actorID := middleware.GetUserID(r)
	result, err := h.uploader.Upload(r.Context(), actorID, media.Upload{
		Slot:     r.FormValue("slot"),
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrForbidden):
			WriteForbidden(w, "Admin access required")
		case errors.Is(err, media.ErrNotImage):
			WriteValidationError(w, map[string]string{"file": "Please upload an image file"})
		case errors.Is(err, media.ErrTooLarge):
			WriteTooLarge(w, "Image must be less than 5MB")
		case errors.Is(err, media.ErrUnknownSlot):
			WriteValidationError(w, map[string]string{"slot": "Invalid image slot"})
		default:
			slog.ErrorContext(r.Context(), "image upload failed", "error", err)
			WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	_ = h.eventService.LogMediaEvent(r.Context(), "Image uploaded", actorID, middleware.ClientIP(r), map[string]any{
		"slot":   result.Slot,
		"path":   result.Path,
		"source": "api",
	})

	WriteCreated(w, result)
}
