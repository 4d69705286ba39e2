package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dentamate/clinicauth/modules/auth"
)

const tokensCollection = "refresh_tokens"

// TokenStore is the MongoDB implementation of auth.TokenStore. Rotation is
// a conditional update on {token, isActive: true}: the matched count tells
// a concurrent loser that the token was already rotated.
type TokenStore struct {
	col *mongo.Collection
}

// NewTokenStore creates the store over the refresh tokens collection.
func NewTokenStore(db *mongo.Database) *TokenStore {
	return &TokenStore{col: db.Collection(tokensCollection)}
}

type tokenDoc struct {
	ID              string     `bson:"_id"`
	UserID          string     `bson:"userId"`
	Token           string     `bson:"token"`
	ExpiresAt       time.Time  `bson:"expiresAt"`
	CreatedByIP     string     `bson:"createdByIp"`
	RevokedAt       *time.Time `bson:"revokedAt,omitempty"`
	RevokedByIP     string     `bson:"revokedByIp,omitempty"`
	ReplacedByToken string     `bson:"replacedByToken,omitempty"`
	IsActive        bool       `bson:"isActive"`
	CreatedAt       time.Time  `bson:"createdAt"`
}

func (s *TokenStore) Create(ctx context.Context, tok *auth.RefreshToken) error {
	doc := tokenDoc{
		ID:          tok.ID,
		UserID:      tok.UserID,
		Token:       tok.Token,
		ExpiresAt:   tok.ExpiresAt,
		CreatedByIP: tok.CreatedByIP,
		IsActive:    tok.IsActive,
		CreatedAt:   tok.CreatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: insert refresh token: %w", err)
	}
	return nil
}

func (s *TokenStore) ByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	var doc tokenDoc
	if err := s.col.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("mongo: find refresh token: %w", err)
	}
	return doc.toToken(), nil
}

func (s *TokenStore) Rotate(ctx context.Context, oldToken, newToken, ip string, at time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"token": oldToken, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":        false,
			"revokedAt":       at,
			"revokedByIp":     ip,
			"replacedByToken": newToken,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo: rotate refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrInvalidToken
	}
	return nil
}

func (s *TokenStore) Revoke(ctx context.Context, token, ip string, at time.Time) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"token": token, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":    false,
			"revokedAt":   at,
			"revokedByIp": ip,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo: revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"userId": userID, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":  false,
			"revokedAt": at,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("mongo: revoke user tokens: %w", err)
	}
	return res.ModifiedCount, nil
}

func (d *tokenDoc) toToken() *auth.RefreshToken {
	t := &auth.RefreshToken{
		ID:              d.ID,
		UserID:          d.UserID,
		Token:           d.Token,
		ExpiresAt:       d.ExpiresAt,
		CreatedByIP:     d.CreatedByIP,
		RevokedByIP:     d.RevokedByIP,
		ReplacedByToken: d.ReplacedByToken,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
	}
	if d.RevokedAt != nil {
		t.RevokedAt = *d.RevokedAt
	}
	return t
}
