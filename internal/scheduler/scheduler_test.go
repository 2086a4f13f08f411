// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/testutil"
)

type fakePruner struct {
	olderThan time.Duration
	deleted   int64
	err       error
	calls     int
}

func (f *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	return f.deleted, f.err
}

func TestNew(t *testing.T) {
	s := New(&fakePruner{}, 30, testutil.TestLoggerSilent())
	if s.cron == nil {
		t.Fatal("New() scheduler has nil cron")
	}
	if s.retention != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", s.retention)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	tests := []struct {
		name      string
		retention int
		wantJobs  int
	}{
		{"retention enabled", 30, 1},
		{"retention disabled", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakePruner{}, tt.retention, testutil.TestLoggerSilent())
			if err := s.Start(); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			if got := len(s.cron.Entries()); got != tt.wantJobs {
				t.Errorf("jobs = %d, want %d", got, tt.wantJobs)
			}
			s.Stop()
		})
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(&fakePruner{}, 30, testutil.TestLoggerSilent())
	s.schedule = "not a schedule"
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Start() with invalid schedule should fail")
	}
}

func TestPruneEvents(t *testing.T) {
	t.Run("uses retention window", func(t *testing.T) {
		p := &fakePruner{deleted: 4}
		s := New(p, 7, testutil.TestLoggerSilent())

		n, err := s.PruneEvents(context.Background())
		if err != nil {
			t.Fatalf("PruneEvents() error = %v", err)
		}
		if n != 4 {
			t.Errorf("deleted = %d, want 4", n)
		}
		if p.olderThan != 7*24*time.Hour {
			t.Errorf("olderThan = %v, want 168h", p.olderThan)
		}
	})

	t.Run("propagates store error", func(t *testing.T) {
		boom := errors.New("db locked")
		s := New(&fakePruner{err: boom}, 7, testutil.TestLoggerSilent())
		if _, err := s.PruneEvents(context.Background()); !errors.Is(err, boom) {
			t.Errorf("PruneEvents() error = %v, want %v", err, boom)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		p := &fakePruner{}
		s := New(p, 0, testutil.TestLoggerSilent())
		if _, err := s.PruneEvents(context.Background()); err == nil {
			t.Error("PruneEvents() with retention disabled should fail")
		}
		if p.calls != 0 {
			t.Errorf("pruner called %d times", p.calls)
		}
	})
}

func TestPruneEventsWithStore(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	_, err := db.Exec(`INSERT INTO events (level, category, message, metadata, ip_address, request_url, created_at) VALUES
		('info', 'system', 'old', '{}', '', '', ?),
		('info', 'system', 'new', '{}', '', '', ?)`,
		time.Now().UTC().Add(-40*24*time.Hour), time.Now().UTC())
	if err != nil {
		t.Fatalf("seeding events: %v", err)
	}

	s := New(service.NewEventService(db), 30, testutil.TestLoggerSilent())
	n, err := s.PruneEvents(context.Background())
	if err != nil {
		t.Fatalf("PruneEvents() error = %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	var remaining int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
}
