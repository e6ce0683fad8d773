package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// ReadyReporter is the session store's readiness signal.
type ReadyReporter interface {
	Ready() bool
}

type HealthHandler struct {
	db    *sql.DB
	store ReadyReporter
}

func NewHealthHandler(db *sql.DB, store ReadyReporter) *HealthHandler {
	return &HealthHandler{db: db, store: store}
}

// pingHandler just says the process is up.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler reports readiness: database reachable and session store
// done loading.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	dbEntry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		dbEntry.Status = HealthUnhealthy
		dbEntry.Message = err.Error()
	}

	storeEntry := CheckEntry{
		Status:    HealthHealthy,
		CheckedAt: time.Now(),
	}
	if h.store != nil && !h.store.Ready() {
		storeEntry.Status = HealthUnhealthy
		storeEntry.Message = "session store is still loading"
	}

	overall := HealthHealthy
	if dbEntry.Status == HealthUnhealthy || storeEntry.Status == HealthUnhealthy {
		overall = HealthUnhealthy
	}

	resp := HealthResponse{
		Status:    overall,
		CheckedAt: time.Now(),
		Components: map[string]CheckEntry{
			"postgres":      dbEntry,
			"session_store": storeEntry,
		},
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
