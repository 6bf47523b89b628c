package domain

import "strings"

// ReferralYear is appended to every generated referral code.
const ReferralYear = "2025"

// User is the stored record of a fundraiser. Email is the lookup key.
type User struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	DonationsRaised float64
	ReferralCode    string
	TotalReferrals  int
	Department      string
	JoinDate        string
	CreatedAt       string
}

// ReferralCode derives the referral code for a name. Codes are not unique.
func ReferralCode(firstName, lastName string) string {
	return strings.ToLower(firstName) + strings.ToLower(lastName) + ReferralYear
}

// Sanitized returns a copy of the user without the password.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// FullName is the display name used in activity entries.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
