// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/olegiv/firmsite/internal/cache"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/store"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	queries   *store.Queries
	bearer    *middleware.BearerAuth
	cache     cache.Cacher
	mediaDir  string
	version   string
	startTime time.Time
}

// HealthConfig holds the HealthHandler's collaborators.
type HealthConfig struct {
	DB       *sql.DB
	Bearer   *middleware.BearerAuth
	Cache    cache.Cacher
	MediaDir string
	Version  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	return &HealthHandler{
		db:        cfg.DB,
		queries:   store.New(cfg.DB),
		bearer:    cfg.Bearer,
		cache:     cfg.Cache,
		mediaDir:  cfg.MediaDir,
		version:   cfg.Version,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (authenticated callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
// Anonymous callers get the status only, signed-in accounts the uptime and
// version, and admins every check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"disk":     h.checkDiskSpace(),
		"cache":    h.checkCache(r.Context()),
	}

	overallStatus := statusHealthy
	for _, c := range checks {
		if c.Status != statusHealthy {
			overallStatus = statusDegraded
			break
		}
	}

	statusCode := http.StatusOK
	if overallStatus != statusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	userID := h.callerID(r)
	if userID == "" {
		writeJSON(w, statusCode, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
	}

	isAdmin, err := h.queries.HasRole(r.Context(), store.HasRoleParams{UserID: userID, Role: store.RoleAdmin})
	if err != nil || !isAdmin {
		writeJSON(w, statusCode, status)
		return
	}

	status.Checks = checks
	if r.URL.Query().Get("verbose") == "true" {
		status.System = h.getSystemInfo()
		if sp, ok := h.cache.(cache.StatsProvider); ok {
			stats := sp.Stats()
			status.Cache = &stats
		}
	}

	writeJSON(w, statusCode, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	if dbCheck.Status == statusHealthy {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	// Only include error details for authenticated callers
	if h.callerID(r) != "" {
		resp["message"] = dbCheck.Message
	}
	writeJSON(w, http.StatusServiceUnavailable, resp)
}

// callerID returns the account behind the session or bearer token, or "".
func (h *HealthHandler) callerID(r *http.Request) string {
	if id := middleware.GetUserID(r); id != "" {
		return id
	}
	if h.bearer == nil {
		return ""
	}
	user, err := h.bearer.Identify(r)
	if err != nil {
		return ""
	}
	return user.ID
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()

	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  statusHealthy,
		Message: "Connected",
		Latency: latency.String(),
	}
}

// checkCache pings a remote cache backend. In-memory caches are always healthy.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	p, ok := h.cache.(cache.Pinger)
	if !ok {
		return Check{Status: statusHealthy, Message: "In-memory"}
	}

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkDiskSpace checks available disk space in the media directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.mediaDir); os.IsNotExist(err) {
		return Check{
			Status:  statusHealthy,
			Message: "Media directory does not exist yet",
		}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.mediaDir, &stat); err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: "Failed to check disk space: " + err.Error(),
		}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	// Warn if less than 100MB available
	const minSpace = 100 * 1024 * 1024
	if availableBytes < minSpace {
		return Check{
			Status:  statusDegraded,
			Message: "Low disk space: " + available + " available",
		}
	}

	return Check{
		Status:  statusHealthy,
		Message: available + " available",
	}
}

// getSystemInfo returns system-level metrics.
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
