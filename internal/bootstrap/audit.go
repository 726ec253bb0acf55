package bootstrap

import (
	"time"

	"go.uber.org/zap"
)

type AuditLog struct {
	Actor  string
	Action string
	Detail string
	At     time.Time
}

type AuditLogger interface {
	Record(entry AuditLog)
}

// ZapAuditLogger writes audit lines through the structured logger. A real
// deployment can swap in a sink that ships them to the audit store.
type ZapAuditLogger struct {
	logger *zap.Logger
}

func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

func (l *ZapAuditLogger) Record(entry AuditLog) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	l.logger.Info("audit",
		zap.String("actor", entry.Actor),
		zap.String("action", entry.Action),
		zap.String("detail", entry.Detail),
		zap.Time("at", entry.At),
	)
}
