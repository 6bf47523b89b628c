package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferralCode(t *testing.T) {
	assert.Equal(t, "johndoe2025", ReferralCode("John", "Doe"))
	assert.Equal(t, "maryjane2025", ReferralCode("MARY", "Jane"))
}

func TestSanitizedDoesNotTouchOriginal(t *testing.T) {
	u := User{Email: "a@example.com", Password: "secret", DonationsRaised: 10}

	clean := u.Sanitized()

	assert.Empty(t, clean.Password)
	assert.Equal(t, "secret", u.Password)
	assert.Equal(t, u.Email, clean.Email)
	assert.Equal(t, u.DonationsRaised, clean.DonationsRaised)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Sarah Davis", User{FirstName: "Sarah", LastName: "Davis"}.FullName())
	assert.Equal(t, "Sarah", User{FirstName: "Sarah"}.FullName())
}
