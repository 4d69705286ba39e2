package audit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Logger writes audit entries for security-relevant events. Storage failures
// are reported through slog rather than returned: an audit write must never
// fail the operation it records, and the operation has often already
// committed by the time the entry is flushed.
type Logger struct {
	storage Storage
	log     *slog.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithSlog sets the fallback logger used to report storage failures.
func WithSlog(log *slog.Logger) Option {
	return func(l *Logger) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLogger creates an audit logger over the given storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EntryOption customizes a single entry.
type EntryOption func(*Entry)

// WithUser attaches the acting user's id.
func WithUser(id string) EntryOption {
	return func(e *Entry) { e.UserID = id }
}

// WithEmail attaches the email the action targeted. Recorded even when no
// account exists, so failed probes leave a trail.
func WithEmail(email string) EntryOption {
	return func(e *Entry) { e.Email = email }
}

// WithMetadata attaches one structured metadata field.
func WithMetadata(key string, value any) EntryOption {
	return func(e *Entry) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action Action, opts ...EntryOption) {
	entry := l.newEntry(ctx, action)
	entry.Success = true
	for _, opt := range opts {
		opt(&entry)
	}
	l.store(ctx, entry)
}

// LogError records a failed action with its error message.
func (l *Logger) LogError(ctx context.Context, action Action, err error, opts ...EntryOption) {
	entry := l.newEntry(ctx, action)
	entry.Success = false
	if err != nil {
		entry.Error = err.Error()
	}
	for _, opt := range opts {
		opt(&entry)
	}
	l.store(ctx, entry)
}

func (l *Logger) newEntry(ctx context.Context, action Action) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Action:    action,
		IP:        "unknown",
		UserAgent: "unknown",
		CreatedAt: time.Now(),
	}
	if info, ok := requestInfoFromContext(ctx); ok {
		if info.ip != "" {
			entry.IP = info.ip
		}
		if info.userAgent != "" {
			entry.UserAgent = info.userAgent
		}
	}
	return entry
}

func (l *Logger) store(ctx context.Context, entry Entry) {
	if err := entry.Validate(); err != nil {
		l.log.Error("dropping invalid audit entry", slog.Any("error", err))
		return
	}
	if err := l.storage.Store(ctx, entry); err != nil {
		l.log.Error("failed to store audit entry",
			slog.String("action", string(entry.Action)),
			slog.Any("error", err),
		)
	}
}
