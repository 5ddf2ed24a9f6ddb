package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/models"
)

// UserStore doesn't go through the generic CRUD core: users are the owners,
// not owned rows, so there is no owner_id column and no scoping predicate.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, email, name, password_hash, created_at`

	var u models.User
	err := s.pool.QueryRow(ctx, query, email, name, passwordHash).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, apperr.Store("insert user", err)
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Store("get user", err)
	}
	return &u, nil
}

// GetByEmail is the login lookup. It returns (nil, nil) when no user has the
// email — the caller distinguishes "no such account" from a store failure
// without surfacing which emails exist.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Store("get user by email", err)
	}
	return &u, nil
}

func (s *UserStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	query := `
		UPDATE users SET name = $1
		WHERE id = $2
		RETURNING id, email, name, password_hash, created_at`

	var u models.User
	err := s.pool.QueryRow(ctx, query, name, id).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Store("update user", err)
	}
	return &u, nil
}
