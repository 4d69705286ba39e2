package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dentamate/clinicauth/pkg/audit"
)

const auditCollection = "audit_logs"

// AuditStore is the insert-only MongoDB sink for audit entries. It
// implements both audit.Storage and audit.BatchStorage so it can back the
// async writer directly. Entries are expired by the TTL index created in
// EnsureIndexes, never deleted by application code.
type AuditStore struct {
	col *mongo.Collection
}

// NewAuditStore creates the store over the audit log collection.
func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{col: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"userId,omitempty"`
	Action    string         `bson:"action"`
	Email     string         `bson:"email,omitempty"`
	IP        string         `bson:"ipAddress"`
	UserAgent string         `bson:"userAgent"`
	Success   bool           `bson:"success"`
	Error     string         `bson:"errorMessage,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
	CreatedAt time.Time      `bson:"createdAt"`
}

func (s *AuditStore) Store(ctx context.Context, entry audit.Entry) error {
	if _, err := s.col.InsertOne(ctx, toAuditDoc(entry)); err != nil {
		return fmt.Errorf("mongo: insert audit entry: %w", err)
	}
	return nil
}

func (s *AuditStore) StoreBatch(ctx context.Context, entries []audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]any, len(entries))
	for i, entry := range entries {
		docs[i] = toAuditDoc(entry)
	}
	// Unordered: one bad entry must not block the rest of the batch.
	if _, err := s.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("mongo: insert audit batch: %w", err)
	}
	return nil
}

func toAuditDoc(entry audit.Entry) auditDoc {
	return auditDoc{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    string(entry.Action),
		Email:     entry.Email,
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
		Success:   entry.Success,
		Error:     entry.Error,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}
