// Package mongo stores client sessions in MongoDB and gives the relay a
// database handle for its readiness ping.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	dialTimeout = 10 * time.Second
	appName     = "roleta-client"
)

var errNoURI = errors.New("mongo: no connection URI")

// Config selects the deployment and the database holding client_sessions.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Conn is a MongoDB connection scoped to one database.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// Dial connects and waits for the primary to answer, so a bad URI fails at
// start-up rather than on the first token read.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	if cfg.URI == "" {
		return nil, errNoURI
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo: ping %s: %w", cfg.Database, err)
	}
	return &Conn{client: client, db: client.Database(cfg.Database)}, nil
}

// Database is the handle the relay pings for readiness.
func (c *Conn) Database() *mongo.Database { return c.db }

// Sessions returns the token repository for profile.
func (c *Conn) Sessions(profile string) *SessionRepository {
	return NewSessionRepository(c.db, profile)
}

// Close disconnects. A nil Conn is a no-op.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
