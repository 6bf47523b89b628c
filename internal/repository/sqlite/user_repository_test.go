package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(ctx))
	return repo
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	user, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	in := &domain.User{
		Email:          "sarah@example.com",
		FirstName:      "Sarah",
		LastName:       "Davis",
		Password:       "password123",
		ReferralCode:   "sarahdavis2025",
		Department:     "Fundraising",
		TotalReferrals: 28,
		CreatedAt:      "2025-01-01T00:00:00Z",
	}
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.GetByEmail(ctx, in.Email)
	require.NoError(t, err)
	assert.Equal(t, *in, *got)
}

func TestUpdateDonations(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "a@example.com", DonationsRaised: 10}))
	require.NoError(t, repo.UpdateDonations(ctx, "a@example.com", 125.5))

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 125.5, got.DonationsRaised)

	err = repo.UpdateDonations(ctx, "unknown@example.com", 50)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDuplicateEmailsAreNotRejected(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "dup@example.com", FirstName: "First"}))
	require.NoError(t, repo.Create(ctx, &domain.User{Email: "dup@example.com", FirstName: "Second"}))

	got, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "First", got.FirstName)

	require.NoError(t, repo.UpdateDonations(ctx, "dup@example.com", 9))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 9.0, list[0].DonationsRaised)
	assert.Equal(t, 0.0, list[1].DonationsRaised)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Create(ctx, &domain.User{Email: email}))
	}

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a@example.com", list[0].Email)
	assert.Equal(t, "c@example.com", list[2].Email)
}
