package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kakao-login/internal/domain"
)

const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		provider_id       TEXT NOT NULL,
		email             TEXT NOT NULL,
		profile_image_url TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_provider_id_key UNIQUE (provider_id)
	)
`

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

// EnsureSchema crea la tabla users si no existe.
func (r *PgUserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, usersSchema)
	return err
}

func (r *PgUserRepository) UpsertByProviderID(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (id, provider_id, email, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, provider_id, email, profile_image_url, created_at, updated_at
	`
	now := user.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	var u domain.User
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.ProviderID,
		user.Email,
		user.ProfileImageURL,
		createdAt,
		now,
	).Scan(
		&u.ID,
		&u.ProviderID,
		&u.Email,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) GetByProviderID(ctx context.Context, providerID string) (domain.User, error) {
	const query = `
		SELECT id, provider_id, email, profile_image_url, created_at, updated_at
		FROM users
		WHERE provider_id = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, providerID).Scan(
		&u.ID,
		&u.ProviderID,
		&u.Email,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
