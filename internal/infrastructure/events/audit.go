package events

import (
	"context"
	"log/slog"

	"github.com/rahulwaghole14/mandap/domain"
)

// SlogAuditLogger implements domain.AuditLogger by writing one structured
// record per event under the "audit" group.
type SlogAuditLogger struct {
	log *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{log: logger.With(slog.String("component", "audit"))}
}

func (a *SlogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	attrs := []any{
		slog.String("event", string(event.EventType)),
		slog.Uint64("admin_id", uint64(event.AdminID)),
		slog.Bool("success", event.Success),
		slog.Time("at", event.Timestamp),
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", event.Email))
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, slog.String("error", event.ErrorMsg))
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	a.log.Log(ctx, level, "audit", slog.Group("audit", attrs...))
	return nil
}
