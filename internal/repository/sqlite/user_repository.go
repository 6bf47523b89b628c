package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

// Users are kept as JSON documents. Email is indexed but not unique, the
// signup flow checks for an existing record before creating one.
const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	document TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS users_email_idx ON users (email);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := json.Marshal(repository.NewDocument(user))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO users (id, email, document, created_at)
VALUES (?, ?, ?, ?)`,
		uuid.NewString(),
		user.Email,
		string(doc),
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT document
FROM users
WHERE email = ?
ORDER BY rowid
LIMIT 1`,
		email,
	)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user, err := decodeUser(raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateDonations rewrites donationsRaised on the first document stored for email.
func (r *UserRepository) UpdateDonations(ctx context.Context, email string, amount float64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET document = json_set(document, '$.donationsRaised', ?)
WHERE id = (SELECT id FROM users WHERE email = ? ORDER BY rowid LIMIT 1)`,
		amount,
		email,
	)
	if err != nil {
		return fmt.Errorf("update donations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donations rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT document FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func decodeUser(raw string) (domain.User, error) {
	var doc repository.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.User{}, fmt.Errorf("decode user document: %w", err)
	}
	return doc.User(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
