package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

type stdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger(logger ...*zap.Logger) AuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &stdoutAuditLogger{logger: l}
}

func (a *stdoutAuditLogger) Log(_ context.Context, entry AuditLog) {
	a.logger.Info("audit",
		zap.Time("timestamp", entry.Timestamp),
		zap.String("request_id", entry.RequestID),
		zap.String("tenant_id", entry.TenantID),
		zap.String("user_id", entry.UserID),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.Status),
		zap.Duration("duration", entry.Duration),
	)
}
