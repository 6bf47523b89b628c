package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/events"
	"donation-tracker/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when signing up with an email that is already stored.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUpdateFailed is returned when the store could not apply a donation update.
	ErrUpdateFailed = errors.New("failed to update donations")
)

// ValidationError reports a missing or malformed request field. Nothing is
// read from or written to the store when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// SignUpInput carries the fields required to create an account.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService describes user lifecycle operations. Returned users never
// carry a password.
type UserService interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	Donations(ctx context.Context, email string) (*domain.User, error)
	UpdateDonations(ctx context.Context, email string, amount *float64) (float64, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	users     repository.UserRepository
	publisher events.Publisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewUserService(users repository.UserRepository, publisher events.Publisher, logger logrus.FieldLogger) UserService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &userService{
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *userService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if blank(email) || blank(password) {
		return nil, invalid("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// plaintext comparison, passwords are stored as given
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return sanitizeUser(user), nil
}

func (s *userService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	if blank(in.Email) || blank(in.Password) || blank(in.FirstName) || blank(in.LastName) {
		return nil, invalid("All fields are required")
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &domain.User{
		Email:           in.Email,
		Password:        in.Password,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		DonationsRaised: 0,
		ReferralCode:    domain.ReferralCode(in.FirstName, in.LastName),
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, domain.Activity{
		Type:        domain.ActivitySignup,
		User:        user.FullName(),
		Timestamp:   user.CreatedAt,
		Description: "New fundraiser joined",
	})
	return sanitizeUser(user), nil
}

func (s *userService) Donations(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateDonations overwrites the donation total with amount.
func (s *userService) UpdateDonations(ctx context.Context, email string, amount *float64) (float64, error) {
	if amount == nil {
		return 0, invalid("Amount is required")
	}
	value := *amount
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, invalid("Amount must be a non-negative number")
	}

	if err := s.users.UpdateDonations(ctx, email, value); err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("donation update failed")
		return 0, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	s.publish(ctx, domain.Activity{
		Type:        domain.ActivityDonation,
		User:        email,
		Amount:      &value,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Description: "Donation total updated",
	})
	return value, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out, nil
}

func (s *userService) publish(ctx context.Context, activity domain.Activity) {
	if err := s.publisher.Publish(ctx, activity); err != nil {
		s.logger.WithError(err).WithField("type", activity.Type).Warn("publish activity")
	}
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := user.Sanitized()
	clean.DonationsRaised = donations(*user)
	return &clean
}

// donations is the record's total with non-finite or negative values read as zero.
func donations(u domain.User) float64 {
	d := u.DonationsRaised
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
