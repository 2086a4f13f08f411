// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalBucketPut(t *testing.T) {
	dir := t.TempDir()
	b, err := NewLocalBucket(filepath.Join(dir, "media"), "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("NewLocalBucket: %v", err)
	}
	ctx := context.Background()

	if err := b.Put(ctx, "logo.png", []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put(ctx, "logo.png", []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(b.Dir(), "logo.png"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("object = %q, want overwritten content", got)
	}

	entries, _ := os.ReadDir(b.Dir())
	if len(entries) != 1 {
		t.Errorf("bucket has %d entries, want 1 (no temp files left)", len(entries))
	}

	if url := b.URL("logo.png"); url != "http://localhost:8080/media/logo.png" {
		t.Errorf("URL = %q", url)
	}
}

func TestLocalBucketRejectsTraversal(t *testing.T) {
	b, err := NewLocalBucket(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalBucket: %v", err)
	}

	for _, p := range []string{"", ".", "..", "../x.png", "a/b.png", ".hidden", "/etc/passwd"} {
		t.Run(p, func(t *testing.T) {
			err := b.Put(context.Background(), p, []byte("x"))
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Put(%q) error = %v, want ErrInvalidPath", p, err)
			}
		})
	}
}

func TestLocalBucketCanceledContext(t *testing.T) {
	b, err := NewLocalBucket(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalBucket: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Put(ctx, "x.png", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}
