package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dentamate/clinicauth/pkg/audit"
)

// EnsureIndexes creates the indexes all three collections rely on. Safe to
// run at every startup: createIndexes is a no-op for indexes that already
// exist with the same definition.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "clinicId", Value: 1}, {Key: "branchId", Value: 1}}},
		{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}},
		{Keys: bson.D{{Key: "emailVerificationToken", Value: 1}}},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("mongo: create user indexes: %w", err)
	}

	tokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}}},
		{
			// Expired tokens are garbage-collected by the server.
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.Collection(tokensCollection).Indexes().CreateMany(ctx, tokenIndexes); err != nil {
		return fmt.Errorf("mongo: create token indexes: %w", err)
	}

	auditIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(audit.RetentionPeriod / time.Second)),
		},
	}
	if _, err := db.Collection(auditCollection).Indexes().CreateMany(ctx, auditIndexes); err != nil {
		return fmt.Errorf("mongo: create audit indexes: %w", err)
	}

	return nil
}
