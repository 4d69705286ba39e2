package audit

import (
	"context"
	"log/slog"
)

// LogStorage writes entries to a slog.Logger instead of persisting them.
// Useful for services that emit audit events but do not own a database.
type LogStorage struct {
	log *slog.Logger
}

// NewLogStorage panics if log is nil.
func NewLogStorage(log *slog.Logger) *LogStorage {
	if log == nil {
		panic("audit: log storage requires a logger")
	}
	return &LogStorage{log: log}
}

func (s *LogStorage) Store(_ context.Context, entry Entry) error {
	s.log.Info("audit entry",
		slog.String("action", string(entry.Action)),
		slog.String("user_id", entry.UserID),
		slog.String("email", entry.Email),
		slog.String("ip", entry.IP),
		slog.Bool("success", entry.Success),
		slog.Any("metadata", entry.Metadata),
	)
	return nil
}
