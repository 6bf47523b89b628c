// Package app assembles the record store from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"donation-tracker/internal/config"
	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
	"donation-tracker/internal/repository/fallback"
	"donation-tracker/internal/repository/memory"
	"donation-tracker/internal/repository/mongo"
	"donation-tracker/internal/repository/redis"
	"donation-tracker/internal/repository/sqlite"
	"donation-tracker/internal/seed"
	"donation-tracker/internal/storage"
)

// Store is the assembled record store.
type Store struct {
	Users repository.UserRepository
	// Connected reports whether a persistent backend answered at startup.
	Connected bool

	closers []func(context.Context) error
}

// Close releases the persistent backend, if any.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// OpenStore connects the configured persistent backend and places it in
// front of an in-memory store seeded with users. When the backend cannot be
// reached the in-memory store serves alone.
func OpenStore(ctx context.Context, cfg config.Config, users []domain.User, logger logrus.FieldLogger) *Store {
	mem := memory.NewUserRepository(users...)

	primary, closer, err := OpenPrimary(ctx, cfg)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.Store.Driver).Warn("persistent store unavailable, serving in-memory data")
		return &Store{Users: mem}
	}
	if primary == nil {
		logger.Info("serving in-memory data")
		return &Store{Users: mem}
	}

	logger.WithField("driver", cfg.Store.Driver).Info("persistent store connected")
	return &Store{
		Users:     fallback.NewUserRepository(primary, mem, cfg.Store.Timeout, logger),
		Connected: true,
		closers:   []func(context.Context) error{closer},
	}
}

// OpenPrimary connects the persistent backend named by cfg.Store.Driver. The
// memory driver has no persistent backend and yields a nil repository.
func OpenPrimary(ctx context.Context, cfg config.Config) (repository.UserRepository, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return nil, nil, nil
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return mongo.NewUserRepository(coll), client.Disconnect, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlite.NewUserRepository(db)
		if err := repo.Init(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init user table: %w", err)
		}
		return repo, func(context.Context) error { return db.Close() }, nil
	case config.DriverRedis:
		rdb, err := redis.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewUserRepository(rdb, cfg.Redis.Key), func(context.Context) error { return rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// LoadSeed reads the example users from the configured S3 object, or from
// the local fixture file when no bucket is set. A missing local file yields
// no users.
func LoadSeed(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) ([]domain.User, error) {
	if cfg.Seed.Bucket != "" {
		svc, err := storage.NewS3ServiceFromOptions(ctx, storage.S3Options{
			Region:   cfg.Seed.Region,
			Endpoint: cfg.Seed.Endpoint,
			Profile:  cfg.AWS.Profile,
		})
		if err != nil {
			return nil, err
		}
		logger.Infof("loading seed users from s3://%s/%s", cfg.Seed.Bucket, cfg.Seed.Key)
		return seed.LoadObject(ctx, svc, cfg.Seed.Bucket, cfg.Seed.Key)
	}

	if cfg.Seed.Path == "" {
		return nil, nil
	}
	users, err := seed.LoadFile(cfg.Seed.Path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf("seed file %s not found, starting empty", cfg.Seed.Path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %d seed users from %s", len(users), cfg.Seed.Path)
	return users, nil
}
