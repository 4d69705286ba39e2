package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dentamate/clinicauth/modules/auth"
	"github.com/dentamate/clinicauth/pkg/rbac"
)

const usersCollection = "users"

// UserStore is the MongoDB implementation of auth.UserStore. Counter and
// token mutations are single findOneAndUpdate/updateOne calls so concurrent
// requests for the same user never see torn state.
type UserStore struct {
	col *mongo.Collection
}

// NewUserStore creates the store over the users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

type userDoc struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Email         string        `bson:"email"`
	Password      []byte        `bson:"password,omitempty"`
	FirstName     string        `bson:"firstName"`
	LastName      string        `bson:"lastName"`
	Phone         string        `bson:"phone,omitempty"`
	Role          string        `bson:"role"`
	ClinicID      string        `bson:"clinicId,omitempty"`
	BranchID      string        `bson:"branchId,omitempty"`
	AuthProvider  string        `bson:"authProvider"`
	EmailVerified bool          `bson:"isEmailVerified"`
	PhoneVerified bool          `bson:"isPhoneVerified"`
	IsActive      bool          `bson:"isActive"`
	LastLogin     *time.Time    `bson:"lastLogin,omitempty"`
	LoginAttempts int           `bson:"loginAttempts"`
	LockUntil     *time.Time    `bson:"lockUntil,omitempty"`

	ResetTokenHash        string     `bson:"passwordResetToken,omitempty"`
	ResetTokenExpires     *time.Time `bson:"passwordResetExpires,omitempty"`
	VerificationTokenHash string     `bson:"emailVerificationToken,omitempty"`
	VerificationExpires   *time.Time `bson:"emailVerificationExpires,omitempty"`

	TwoFactorEnabled bool   `bson:"twoFactorEnabled"`
	TwoFactorSecret  string `bson:"twoFactorSecret,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// secretsProjection drops the fields equivalent to Mongoose `select: false`.
var secretsProjection = bson.D{
	{Key: "password", Value: 0},
	{Key: "passwordResetToken", Value: 0},
	{Key: "passwordResetExpires", Value: 0},
	{Key: "emailVerificationToken", Value: 0},
	{Key: "emailVerificationExpires", Value: 0},
	{Key: "twoFactorSecret", Value: 0},
}

func (s *UserStore) Create(ctx context.Context, user *auth.User) error {
	now := time.Now()
	doc := userDoc{
		Email:                 user.Email,
		Password:              user.PasswordHash,
		FirstName:             user.FirstName,
		LastName:              user.LastName,
		Phone:                 user.Phone,
		Role:                  string(user.Role),
		ClinicID:              user.ClinicID,
		BranchID:              user.BranchID,
		AuthProvider:          string(user.Provider),
		EmailVerified:         user.IsEmailVerified,
		PhoneVerified:         user.IsPhoneVerified,
		IsActive:              user.IsActive,
		LoginAttempts:         user.LoginAttempts,
		VerificationTokenHash: user.VerificationTokenHash,
		TwoFactorEnabled:      user.TwoFactorEnabled,
		TwoFactorSecret:       user.TwoFactorSecret,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if !user.VerificationExpires.IsZero() {
		doc.VerificationExpires = &user.VerificationExpires
	}

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("mongo: insert user: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id.Hex()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (s *UserStore) ByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid}, true)
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, true)
}

func (s *UserStore) ByEmailWithSecrets(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, false)
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, stripSecrets bool) (*auth.User, error) {
	opts := options.FindOne()
	if stripSecrets {
		opts = opts.SetProjection(secretsProjection)
	}

	var doc userDoc
	if err := s.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("mongo: find user: %w", err)
	}
	return doc.toUser(), nil
}

func (s *UserStore) IncLoginAttempts(ctx context.Context, id string, threshold int, lockFor time.Duration) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, auth.ErrUserNotFound
	}

	var current struct {
		LoginAttempts int        `bson:"loginAttempts"`
		LockUntil     *time.Time `bson:"lockUntil"`
	}
	err = s.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.D{
			{Key: "loginAttempts", Value: 1},
			{Key: "lockUntil", Value: 1},
		}),
	).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, auth.ErrUserNotFound
		}
		return false, fmt.Errorf("mongo: read login attempts: %w", err)
	}

	now := time.Now()

	// A lapsed lock restarts the count instead of stacking onto it.
	if current.LockUntil != nil && current.LockUntil.Before(now) {
		_, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
			"$set":   bson.M{"loginAttempts": 1, "updatedAt": now},
			"$unset": bson.M{"lockUntil": 1},
		})
		if err != nil {
			return false, fmt.Errorf("mongo: restart login attempts: %w", err)
		}
		return false, nil
	}

	update := bson.M{
		"$inc": bson.M{"loginAttempts": 1},
		"$set": bson.M{"updatedAt": now},
	}
	locking := current.LoginAttempts+1 >= threshold &&
		(current.LockUntil == nil || !current.LockUntil.After(now))
	if locking {
		update["$set"] = bson.M{
			"lockUntil": now.Add(lockFor),
			"updatedAt": now,
		}
	}

	if _, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return false, fmt.Errorf("mongo: increment login attempts: %w", err)
	}
	return locking, nil
}

func (s *UserStore) ResetLoginAttempts(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"loginAttempts": 0, "updatedAt": time.Now()},
		"$unset": bson.M{"lockUntil": 1},
	})
	if err != nil {
		return fmt.Errorf("mongo: reset login attempts: %w", err)
	}
	return nil
}

func (s *UserStore) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"lastLogin": at, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("mongo: set last login: %w", err)
	}
	return nil
}

func (s *UserStore) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expires,
			"updatedAt":            time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: set reset token: %w", err)
	}
	return nil
}

func (s *UserStore) ConsumeResetToken(ctx context.Context, tokenHash string) (*auth.User, error) {
	return s.consumeToken(ctx,
		bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$unset": bson.M{"passwordResetToken": 1, "passwordResetExpires": 1},
			"$set":   bson.M{"updatedAt": time.Now()},
		},
	)
}

func (s *UserStore) SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"emailVerificationToken":   tokenHash,
			"emailVerificationExpires": expires,
			"updatedAt":                time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: set verification token: %w", err)
	}
	return nil
}

func (s *UserStore) ConsumeVerificationToken(ctx context.Context, tokenHash string) (*auth.User, error) {
	return s.consumeToken(ctx,
		bson.M{
			"emailVerificationToken":   tokenHash,
			"emailVerificationExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$unset": bson.M{"emailVerificationToken": 1, "emailVerificationExpires": 1},
			"$set":   bson.M{"isEmailVerified": true, "updatedAt": time.Now()},
		},
	)
}

// consumeToken matches and clears a one-time token in one findOneAndUpdate,
// so a token can never be consumed twice.
func (s *UserStore) consumeToken(ctx context.Context, filter, update bson.M) (*auth.User, error) {
	var doc userDoc
	err := s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(secretsProjection),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("mongo: consume token: %w", err)
	}
	return doc.toUser(), nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": hash, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("mongo: update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (d *userDoc) toUser() *auth.User {
	u := &auth.User{
		ID:                     d.ID.Hex(),
		Email:                  d.Email,
		PasswordHash:           d.Password,
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		Phone:                  d.Phone,
		Role:                   rbac.Role(d.Role),
		ClinicID:               d.ClinicID,
		BranchID:               d.BranchID,
		Provider:               auth.AuthProvider(d.AuthProvider),
		IsEmailVerified:        d.EmailVerified,
		IsPhoneVerified:        d.PhoneVerified,
		IsActive:               d.IsActive,
		LoginAttempts:          d.LoginAttempts,
		VerificationTokenHash:  d.VerificationTokenHash,
		PasswordResetTokenHash: d.ResetTokenHash,
		TwoFactorEnabled:       d.TwoFactorEnabled,
		TwoFactorSecret:        d.TwoFactorSecret,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
	if d.LastLogin != nil {
		u.LastLogin = *d.LastLogin
	}
	if d.LockUntil != nil {
		u.LockUntil = *d.LockUntil
	}
	if d.ResetTokenExpires != nil {
		u.PasswordResetExpires = *d.ResetTokenExpires
	}
	if d.VerificationExpires != nil {
		u.VerificationExpires = *d.VerificationExpires
	}
	return u
}
