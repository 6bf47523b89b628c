// Package fallback composes a persistent user repository with an in-memory
// one. Every call goes to the primary first; a backend fault (anything but
// repository.ErrNotFound) retries the same call once on the secondary.
//
// The two sides are never reconciled. A write that lands on the secondary is
// invisible to later reads the primary answers, and the other way round.
package fallback

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

type UserRepository struct {
	primary   repository.UserRepository
	secondary repository.UserRepository
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// NewUserRepository wraps primary and secondary. A zero timeout leaves
// primary calls bounded only by the caller's context.
func NewUserRepository(primary, secondary repository.UserRepository, timeout time.Duration, logger logrus.FieldLogger) *UserRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserRepository{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		logger:    logger,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := r.do(ctx, "get", func(ctx context.Context, repo repository.UserRepository) error {
		var err error
		user, err = repo.GetByEmail(ctx, email)
		return err
	})
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.do(ctx, "create", func(ctx context.Context, repo repository.UserRepository) error {
		return repo.Create(ctx, user)
	})
}

func (r *UserRepository) UpdateDonations(ctx context.Context, email string, amount float64) error {
	return r.do(ctx, "update donations", func(ctx context.Context, repo repository.UserRepository) error {
		return repo.UpdateDonations(ctx, email, amount)
	})
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.do(ctx, "list", func(ctx context.Context, repo repository.UserRepository) error {
		var err error
		users, err = repo.List(ctx)
		return err
	})
	return users, err
}

func (r *UserRepository) do(ctx context.Context, op string, call func(context.Context, repository.UserRepository) error) error {
	err := r.callPrimary(ctx, call)
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return err
	}

	r.logger.WithError(err).WithField("op", op).Warn("primary store failed, using fallback store")
	return call(ctx, r.secondary)
}

func (r *UserRepository) callPrimary(ctx context.Context, call func(context.Context, repository.UserRepository) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return call(ctx, r.primary)
}

var _ repository.UserRepository = (*UserRepository)(nil)
