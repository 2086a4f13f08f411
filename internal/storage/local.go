// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage provides the object bucket that uploaded images are
// written to and served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for object paths that would escape the bucket.
var ErrInvalidPath = errors.New("invalid object path")

// Bucket stores objects by path and exposes them at a public URL.
type Bucket interface {
	Put(ctx context.Context, path string, data []byte) error
	URL(path string) string
}

// LocalBucket keeps objects in a directory on disk. The directory is served
// under urlPrefix by the HTTP layer.
type LocalBucket struct {
	dir       string
	urlPrefix string
}

// NewLocalBucket creates the bucket directory if needed.
func NewLocalBucket(dir, urlPrefix string) (*LocalBucket, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving bucket directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}
	return &LocalBucket{dir: abs, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the absolute bucket directory.
func (b *LocalBucket) Dir() string {
	return b.dir
}

// Put writes data to path, replacing any existing object.
func (b *LocalBucket) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := b.resolve(path)
	if err != nil {
		return err
	}

	// Write to a temp file in the same directory and rename so readers
	// never see a partial object.
	tmp, err := os.CreateTemp(b.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp object: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing object %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing object %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting object mode %s: %w", path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storing object %s: %w", path, err)
	}
	return nil
}

// URL returns the public URL of path.
func (b *LocalBucket) URL(path string) string {
	return b.urlPrefix + "/" + path
}

// resolve maps an object path to a file inside the bucket directory.
// Only flat names are accepted.
func (b *LocalBucket) resolve(path string) (string, error) {
	if path == "" || path != filepath.Base(path) || path == "." || path == ".." || strings.HasPrefix(path, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	target := filepath.Join(b.dir, path)
	rel, err := filepath.Rel(b.dir, target)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return target, nil
}
