package tokenstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/infrastructure/config"
	mongodb "github.com/roletapro/roleta-client/internal/infrastructure/db/mongo"
	redisdb "github.com/roletapro/roleta-client/internal/infrastructure/db/redis"
	"github.com/roletapro/roleta-client/pkg/apiclient"
)

// CloseFunc releases whatever connection a store holds.
type CloseFunc func(ctx context.Context) error

func noClose(context.Context) error { return nil }

// Open builds the token store selected by cfg.TokenStore.Kind for cfg.Profile.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (apiclient.TokenStore, CloseFunc, error) {
	switch cfg.TokenStore.Kind {
	case config.StoreMemory:
		return NewMemory().Profile(cfg.Profile), noClose, nil

	case config.StoreFile, "":
		dir, err := cfg.TokenDir()
		if err != nil {
			return nil, nil, err
		}
		f := NewFile(dir, cfg.Profile, cfg.TokenStore.Passphrase)
		log.Debug().Str("path", f.Path()).Bool("sealed", cfg.TokenStore.Passphrase != "").Msg("using file token store")
		return f, noClose, nil

	case config.StoreRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("tokenstore: %w", err)
		}
		log.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis token store")
		return redisdb.NewSessionStore(client, cfg.Profile), func(context.Context) error {
			return client.Close()
		}, nil

	case config.StoreMongo:
		conn, err := mongodb.Dial(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, fmt.Errorf("tokenstore: %w", err)
		}
		repo := conn.Sessions(cfg.Profile)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("session ttl index not created")
		}
		log.Debug().Str("database", cfg.Mongo.Database).Msg("using mongo token store")
		return repo, conn.Close, nil

	default:
		return nil, nil, fmt.Errorf("tokenstore: unknown kind %q", cfg.TokenStore.Kind)
	}
}
