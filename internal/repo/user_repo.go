package repo

import (
	"context"

	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. Lookups on absent users return pgx.ErrNoRows.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (dom.User, error)
	UpdateRefreshToken(ctx context.Context, userID int64, token string) error
	ConfirmEmail(ctx context.Context, email string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, avatar, refresh_token, confirmed`

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
		&u.Avatar, &u.RefreshToken, &u.Confirmed)
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, email, passwordHash).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
		&u.Avatar, &u.RefreshToken, &u.Confirmed,
	)
	return u, err
}

// UpdateRefreshToken stores the latest refresh token for the user; an empty
// token clears it.
func (r *PGUserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, userID, token)
	return err
}

// ConfirmEmail marks the user's email as confirmed.
func (r *PGUserRepo) ConfirmEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET confirmed = TRUE WHERE email = $1`, email)
	return err
}
