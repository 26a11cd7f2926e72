// Package telemetry provides the sinks that receive diagnostic records from
// the reply renderer: a log sink, a SQLite audit recorder and a fan-out.
package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/eliseohh/splitonbot/internal/reply"
)

// LogSink writes each record as an info line.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(rec reply.Record) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(fmt.Sprintf("Usuário %s (%d) executou /%s", rec.DisplayName, rec.UserID, rec.Event),
		"event", rec.Event,
		"user_id", rec.UserID,
		"display_name", rec.DisplayName,
	)
}

// Multi fans a record out to every sink. A panicking sink is skipped.
type Multi []reply.Sink

func (m Multi) Emit(rec reply.Record) {
	for _, s := range m {
		if s == nil {
			continue
		}
		emitSafe(s, rec)
	}
}

func emitSafe(s reply.Sink, rec reply.Record) {
	defer func() { _ = recover() }()
	s.Emit(rec)
}
