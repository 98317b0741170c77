// Package logsink writes audit events to the structured log. It is the
// default sink when neither Kafka nor Postgres is configured.
package logsink

import (
	"context"
	"log/slog"

	audit "lifecover/pkg/platform/audit"
)

type Sink struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	level := slog.LevelInfo
	if event.Category == audit.CategorySecurity {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "audit event",
		"action", event.Action,
		"category", string(event.Category),
		"timestamp", event.Timestamp,
		"user_id", event.UserID,
		"subject", event.Subject,
		"decision", event.Decision,
		"reason", event.Reason,
		"ip", event.IP,
		"request_id", event.RequestID,
	)
	return nil
}
