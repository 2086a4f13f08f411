// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	t.Run("fast handler", func(t *testing.T) {
		h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "yes")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("done"))
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusCreated || rec.Body.String() != "done" || rec.Header().Get("X-Test") != "yes" {
			t.Errorf("status=%d body=%q", rec.Code, rec.Body.String())
		}
	})

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	t.Run("slow handler text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Timeout(10*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusServiceUnavailable || rec.Body.String() != "Request timeout" {
			t.Errorf("status=%d body=%q", rec.Code, rec.Body.String())
		}
	})

	t.Run("slow handler JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		Timeout(10*time.Millisecond)(slow).ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"error":"Request timeout"`) {
			t.Errorf("status=%d body=%q", rec.Code, rec.Body.String())
		}
	})

	t.Run("panic reaches caller", func(t *testing.T) {
		h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		defer func() {
			if p := recover(); p != "boom" {
				t.Errorf("recovered %v, want boom", p)
			}
		}()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestTimeoutWriterDropsLateWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rec}
	tw.timedOut = true

	tw.WriteHeader(http.StatusTeapot)
	_, err := tw.Write([]byte("late"))

	if !errors.Is(err, http.ErrHandlerTimeout) {
		t.Errorf("Write() error = %v, want ErrHandlerTimeout", err)
	}
	if rec.Body.Len() != 0 || rec.Code != http.StatusOK {
		t.Errorf("late write reached the client: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestTimeoutWriterImplicitHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rec}

	_, _ = tw.Write([]byte("x"))
	tw.WriteHeader(http.StatusInternalServerError)

	if !tw.wroteHeader || rec.Code != http.StatusOK {
		t.Errorf("wroteHeader=%v code=%d", tw.wroteHeader, rec.Code)
	}
}
