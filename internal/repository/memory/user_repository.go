package memory

import (
	"context"
	"sync"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

// UserRepository keeps users in process memory. It is the fallback store
// when the persistent backend is unavailable.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
}

// NewUserRepository returns a store holding copies of the given seed users,
// listed in the order given.
func NewUserRepository(seed ...domain.User) *UserRepository {
	r := &UserRepository{
		users: make(map[string]*domain.User, len(seed)),
	}
	for i := range seed {
		r.put(seed[i])
	}
	return r
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// Create stores the user, replacing any record with the same email.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(*user)
	return nil
}

func (r *UserRepository) UpdateDonations(_ context.Context, email string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	user.DonationsRaised = amount
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, email := range r.order {
		users = append(users, *r.users[email])
	}
	return users, nil
}

// put must be called with mu held.
func (r *UserRepository) put(user domain.User) {
	if _, exists := r.users[user.Email]; !exists {
		r.order = append(r.order, user.Email)
	}
	r.users[user.Email] = &user
}

var _ repository.UserRepository = (*UserRepository)(nil)
