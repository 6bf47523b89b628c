package repository

import (
	"context"
	"errors"

	"donation-tracker/internal/domain"
)

// ErrNotFound is returned when no record matches the requested email.
// It is a normal outcome, not a backend fault.
var ErrNotFound = errors.New("user not found")

// UserRepository defines persistence operations for User records.
//
// Implementations return independent copies; mutating a returned user never
// changes the stored record. Create does not check for an existing email,
// callers that need uniqueness must look the email up first.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateDonations(ctx context.Context, email string, amount float64) error
	List(ctx context.Context) ([]domain.User, error)
}

// Document is the stored shape of a user shared by the document backends.
type Document struct {
	Email           string  `json:"email" bson:"email" msgpack:"email"`
	FirstName       string  `json:"firstName" bson:"firstName" msgpack:"firstName"`
	LastName        string  `json:"lastName" bson:"lastName" msgpack:"lastName"`
	Password        string  `json:"password" bson:"password" msgpack:"password"`
	DonationsRaised float64 `json:"donationsRaised" bson:"donationsRaised" msgpack:"donationsRaised"`
	ReferralCode    string  `json:"referralCode" bson:"referralCode" msgpack:"referralCode"`
	TotalReferrals  int     `json:"totalReferrals,omitempty" bson:"totalReferrals,omitempty" msgpack:"totalReferrals,omitempty"`
	Department      string  `json:"department,omitempty" bson:"department,omitempty" msgpack:"department,omitempty"`
	JoinDate        string  `json:"joinDate,omitempty" bson:"joinDate,omitempty" msgpack:"joinDate,omitempty"`
	CreatedAt       string  `json:"createdAt" bson:"createdAt" msgpack:"createdAt"`
}

func NewDocument(u *domain.User) Document {
	return Document{
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Password:        u.Password,
		DonationsRaised: u.DonationsRaised,
		ReferralCode:    u.ReferralCode,
		TotalReferrals:  u.TotalReferrals,
		Department:      u.Department,
		JoinDate:        u.JoinDate,
		CreatedAt:       u.CreatedAt,
	}
}

func (d Document) User() domain.User {
	return domain.User{
		Email:           d.Email,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Password:        d.Password,
		DonationsRaised: d.DonationsRaised,
		ReferralCode:    d.ReferralCode,
		TotalReferrals:  d.TotalReferrals,
		Department:      d.Department,
		JoinDate:        d.JoinDate,
		CreatedAt:       d.CreatedAt,
	}
}
