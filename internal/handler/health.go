package handler

import (
	"context"
	"net/http"
	"time"

	"retail-ledger/internal/model"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	audit   Pinger
	driver  string
	version string
}

// NewHealthHandler creates a health handler. audit is nil for sinks that
// have nothing to ping.
func NewHealthHandler(audit Pinger, driver, version string) *HealthHandler {
	return &HealthHandler{
		audit:   audit,
		driver:  driver,
		version: version,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", model.ErrCodeInvalidInput)
		return
	}

	response := model.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Audit:     h.checkAudit(r.Context()),
	}

	status := http.StatusOK
	if response.Audit.Status != "healthy" {
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func (h *HealthHandler) checkAudit(ctx context.Context) model.AuditHealth {
	health := model.AuditHealth{Driver: h.driver, Status: "healthy"}
	if h.audit == nil {
		return health
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.audit.Ping(ctx); err != nil {
		health.Status = "unhealthy"
	}
	return health
}
