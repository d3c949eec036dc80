package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one front-end operation and its outcome
type AuditEntry struct {
	ID        uuid.UUID `json:"id"`
	Operation string    `json:"operation"`
	Arguments string    `json:"arguments"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}
