package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roletapro/roleta-client/internal/pkg/claims"
)

const sessionCollection = "client_sessions"

// SessionRepository keeps one bearer token per profile in MongoDB.
type SessionRepository struct {
	coll    *mongo.Collection
	profile string
	now     func() time.Time
}

func NewSessionRepository(db *mongo.Database, profile string) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection), profile: profile, now: time.Now}
}

type mongoSession struct {
	Profile   string     `bson:"_id"`
	Token     string     `bson:"token"`
	UpdatedAt time.Time  `bson:"updated_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// EnsureIndexes creates the TTL index that lets MongoDB drop expired sessions.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create session index: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context) (string, error) {
	var doc mongoSession
	err := r.coll.FindOne(ctx, bson.M{"_id": r.profile}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}
	return doc.Token, nil
}

func (r *SessionRepository) Set(ctx context.Context, token string) error {
	now := r.now().UTC()
	doc := mongoSession{Profile: r.profile, Token: token, UpdatedAt: now}
	if info, err := claims.Decode(token, now); err == nil && !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt
		doc.ExpiresAt = &exp
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": r.profile}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Remove(ctx context.Context) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": r.profile}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
