package bootstrap

import (
	"context"
	"time"
)

// AuditLog is one record of a state-changing action, written after the
// handler has run.
type AuditLog struct {
	Timestamp time.Time
	RequestID string
	TenantID  string
	UserID    string
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
