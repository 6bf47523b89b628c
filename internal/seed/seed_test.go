package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository/memory"
)

type fakeStorage struct {
	data   []byte
	err    error
	bucket string
	key    string
}

func (f *fakeStorage) Download(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	return f.data, f.err
}

func TestLoad(t *testing.T) {
	users, err := Load(strings.NewReader(`[
		{"email":"a@example.com","firstName":"Ann","lastName":"Lee","password":"pw","donationsRaised":12.5,"department":"Events","totalReferrals":3},
		{"email":"b@example.com","firstName":"Bo","lastName":"Kim","referralCode":"custom"}
	]`))
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, 12.5, users[0].DonationsRaised)
	assert.Equal(t, "Events", users[0].Department)
	assert.Equal(t, 3, users[0].TotalReferrals)
	assert.Equal(t, "annlee2025", users[0].ReferralCode)
	assert.Equal(t, "custom", users[1].ReferralCode)
	assert.Zero(t, users[1].DonationsRaised)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"unknown field":  `[{"email":"a@example.com","nickname":"x"}]`,
		"missing email":  `[{"firstName":"A"}]`,
		"duplicate":      `[{"email":"a@example.com"},{"email":"a@example.com"}]`,
		"negative total": `[{"email":"a@example.com","donationsRaised":-1}]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_ShippedFixture(t *testing.T) {
	users, err := LoadFile("../../fixtures/users.json")
	require.NoError(t, err)
	require.Len(t, users, 15)

	departments := map[string]struct{}{}
	for _, u := range users {
		assert.NotEmpty(t, u.Department)
		assert.Equal(t, domain.ReferralCode(u.FirstName, u.LastName), u.ReferralCode)
		departments[u.Department] = struct{}{}
	}
	assert.Len(t, departments, 15)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("does-not-exist.json")
	assert.Error(t, err)
}

func TestLoadObject(t *testing.T) {
	store := &fakeStorage{data: []byte(`[{"email":"a@example.com"}]`)}

	users, err := LoadObject(context.Background(), store, "fixtures", "users.json")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "fixtures", store.bucket)
	assert.Equal(t, "users.json", store.key)

	store.err = errors.New("access denied")
	_, err = LoadObject(context.Background(), store, "fixtures", "users.json")
	assert.ErrorContains(t, err, "access denied")
}

func TestPopulateSkipsExisting(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(domain.User{Email: "a@example.com", DonationsRaised: 99})
	logger, _ := logtest.NewNullLogger()

	added, err := Populate(ctx, repo, []domain.User{
		{Email: "a@example.com", DonationsRaised: 1},
		{Email: "b@example.com", DonationsRaised: 2},
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	a, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 99.0, a.DonationsRaised)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
