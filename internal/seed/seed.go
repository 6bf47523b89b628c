// Package seed loads the example user catalog that backs the in-memory store
// and can copy it into a persistent backend.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
	"donation-tracker/internal/storage"
)

// Load decodes a JSON array of user documents.
func Load(r io.Reader) ([]domain.User, error) {
	var docs []repository.Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}

	seen := make(map[string]struct{}, len(docs))
	users := make([]domain.User, 0, len(docs))
	for i, doc := range docs {
		if doc.Email == "" {
			return nil, fmt.Errorf("seed user %d: email is required", i)
		}
		if _, dup := seen[doc.Email]; dup {
			return nil, fmt.Errorf("seed user %d: duplicate email %s", i, doc.Email)
		}
		if doc.DonationsRaised < 0 || math.IsNaN(doc.DonationsRaised) || math.IsInf(doc.DonationsRaised, 0) {
			return nil, fmt.Errorf("seed user %s: invalid donationsRaised", doc.Email)
		}
		seen[doc.Email] = struct{}{}

		user := doc.User()
		if user.ReferralCode == "" {
			user.ReferralCode = domain.ReferralCode(user.FirstName, user.LastName)
		}
		users = append(users, user)
	}
	return users, nil
}

func LoadFile(path string) ([]domain.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func LoadObject(ctx context.Context, svc storage.Service, bucket, key string) ([]domain.User, error) {
	data, err := svc.Download(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}

// Populate creates every user whose email is not stored yet and returns how
// many were added.
func Populate(ctx context.Context, repo repository.UserRepository, users []domain.User, logger logrus.FieldLogger) (int, error) {
	added := 0
	for i := range users {
		log := logger.WithField("email", users[i].Email)

		_, err := repo.GetByEmail(ctx, users[i].Email)
		if err == nil {
			log.Info("user already exists")
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return added, fmt.Errorf("look up %s: %w", users[i].Email, err)
		}

		if err := repo.Create(ctx, &users[i]); err != nil {
			return added, fmt.Errorf("create %s: %w", users[i].Email, err)
		}
		log.Info("added user")
		added++
	}
	return added, nil
}
