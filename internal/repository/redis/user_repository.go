package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

const maxUpdateAttempts = 3

// Connect builds a client from a redis:// URL and pings it.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// UserRepository keeps every user as a msgpack document in one hash,
// field = email.
type UserRepository struct {
	rdb *goredis.Client
	key string
}

func NewUserRepository(rdb *goredis.Client, key string) *UserRepository {
	return &UserRepository{rdb: rdb, key: key}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	raw, err := r.rdb.HGet(ctx, r.key, email).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user, err := decodeUser(raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	raw, err := msgpack.Marshal(repository.NewDocument(user))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := r.rdb.HSet(ctx, r.key, user.Email, raw).Err(); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// UpdateDonations rewrites the stored document under WATCH so that a
// concurrent writer forces a retry instead of being overwritten.
func (r *UserRepository) UpdateDonations(ctx context.Context, email string, amount float64) error {
	update := func(tx *goredis.Tx) error {
		raw, err := tx.HGet(ctx, r.key, email).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		var doc repository.Document
		if err := msgpack.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		doc.DonationsRaised = amount

		next, err := msgpack.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, r.key, email, next)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = r.rdb.Watch(ctx, update, r.key)
		if !errors.Is(err, goredis.TxFailedErr) {
			break
		}
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("update donations: %w", err)
	}
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	values, err := r.rdb.HVals(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(values))
	for _, v := range values {
		user, err := decodeUser([]byte(v))
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func decodeUser(raw []byte) (domain.User, error) {
	var doc repository.Document
	if err := msgpack.Unmarshal(raw, &doc); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return doc.User(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
