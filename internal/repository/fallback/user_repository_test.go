package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
	"donation-tracker/internal/repository/memory"
)

var errBackendDown = errors.New("backend unavailable")

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepo) UpdateDonations(ctx context.Context, email string, amount float64) error {
	return m.Called(ctx, email, amount).Error(0)
}

func (m *mockRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func newTestRepo(t *testing.T, seed ...domain.User) (*UserRepository, *mockRepo, *memory.UserRepository, *logtest.Hook) {
	t.Helper()
	primary := &mockRepo{}
	secondary := memory.NewUserRepository(seed...)
	logger, hook := logtest.NewNullLogger()
	t.Cleanup(func() { primary.AssertExpectations(t) })
	return NewUserRepository(primary, secondary, time.Second, logger), primary, secondary, hook
}

func TestGetByEmail_PrimaryHit(t *testing.T) {
	repo, primary, _, hook := newTestRepo(t, domain.User{Email: "a@example.com", FirstName: "Mock"})
	primary.On("GetByEmail", mock.Anything, "a@example.com").
		Return(&domain.User{Email: "a@example.com", FirstName: "Stored"}, nil).Once()

	user, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Stored", user.FirstName)
	assert.Empty(t, hook.AllEntries())
}

func TestGetByEmail_NotFoundDoesNotFallBack(t *testing.T) {
	repo, primary, _, hook := newTestRepo(t, domain.User{Email: "a@example.com"})
	primary.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, repository.ErrNotFound).Once()

	user, err := repo.GetByEmail(context.Background(), "a@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, hook.AllEntries())
}

func TestGetByEmail_FaultFallsBack(t *testing.T) {
	repo, primary, _, hook := newTestRepo(t, domain.User{Email: "a@example.com", FirstName: "Mock"})
	primary.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, errBackendDown).Once()

	user, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Mock", user.FirstName)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "get", hook.LastEntry().Data["op"])
}

func TestGetByEmail_FaultThenMissingOnFallback(t *testing.T) {
	repo, primary, _, _ := newTestRepo(t)
	primary.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, errBackendDown).Once()

	_, err := repo.GetByEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_FaultLandsOnFallbackOnly(t *testing.T) {
	ctx := context.Background()
	repo, primary, secondary, _ := newTestRepo(t)
	user := &domain.User{Email: "new@example.com"}
	primary.On("Create", mock.Anything, user).Return(errBackendDown).Once()

	require.NoError(t, repo.Create(ctx, user))

	stored, err := secondary.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestCreate_PrimarySuccessSkipsFallback(t *testing.T) {
	ctx := context.Background()
	repo, primary, secondary, _ := newTestRepo(t)
	user := &domain.User{Email: "new@example.com"}
	primary.On("Create", mock.Anything, user).Return(nil).Once()

	require.NoError(t, repo.Create(ctx, user))

	_, err := secondary.GetByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateDonations(t *testing.T) {
	ctx := context.Background()
	repo, primary, secondary, _ := newTestRepo(t, domain.User{Email: "a@example.com", DonationsRaised: 1})

	primary.On("UpdateDonations", mock.Anything, "a@example.com", 75.0).Return(errBackendDown).Once()
	require.NoError(t, repo.UpdateDonations(ctx, "a@example.com", 75))
	got, err := secondary.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.DonationsRaised)

	primary.On("UpdateDonations", mock.Anything, "b@example.com", 5.0).Return(errBackendDown).Once()
	assert.ErrorIs(t, repo.UpdateDonations(ctx, "b@example.com", 5), repository.ErrNotFound)

	primary.On("UpdateDonations", mock.Anything, "c@example.com", 5.0).Return(repository.ErrNotFound).Once()
	assert.ErrorIs(t, repo.UpdateDonations(ctx, "c@example.com", 5), repository.ErrNotFound)
}

func TestList_FaultFallsBack(t *testing.T) {
	repo, primary, _, _ := newTestRepo(t, domain.User{Email: "a@example.com"}, domain.User{Email: "b@example.com"})
	primary.On("List", mock.Anything).Return(nil, errBackendDown).Once()

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestPrimaryCallCarriesDeadline(t *testing.T) {
	repo, primary, _, _ := newTestRepo(t)
	primary.On("List", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return([]domain.User{}, nil).Once()

	_, err := repo.List(context.Background())
	require.NoError(t, err)
}
