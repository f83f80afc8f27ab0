package repo

import (
	"context"

	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepo provides tag persistence, scoped to the owning user.
type TagRepo interface {
	List(ctx context.Context, userID int64, skip, limit int) ([]dom.Tag, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Tag, error)
	Create(ctx context.Context, userID int64, name string) (dom.Tag, error)
	Update(ctx context.Context, userID, id int64, name string) (dom.Tag, error)
	Delete(ctx context.Context, userID, id int64) (dom.Tag, error)
}

// PGTagRepo implements TagRepo with Postgres.
type PGTagRepo struct {
	db *pgxpool.Pool
}

// NewPGTagRepo returns a new PGTagRepo.
func NewPGTagRepo(db *pgxpool.Pool) *PGTagRepo {
	return &PGTagRepo{db: db}
}

func scanTag(row pgx.Row) (dom.Tag, error) {
	var t dom.Tag
	err := row.Scan(&t.ID, &t.UserID, &t.Name)
	return t, err
}

func (r *PGTagRepo) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name FROM tags
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTagRepo) GetByID(ctx context.Context, userID, id int64) (dom.Tag, error) {
	return scanTag(r.db.QueryRow(ctx,
		`SELECT id, user_id, name FROM tags WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (r *PGTagRepo) Create(ctx context.Context, userID int64, name string) (dom.Tag, error) {
	return scanTag(r.db.QueryRow(ctx, `
		INSERT INTO tags (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name`, userID, name))
}

func (r *PGTagRepo) Update(ctx context.Context, userID, id int64, name string) (dom.Tag, error) {
	return scanTag(r.db.QueryRow(ctx, `
		UPDATE tags SET name = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name`, id, userID, name))
}

func (r *PGTagRepo) Delete(ctx context.Context, userID, id int64) (dom.Tag, error) {
	return scanTag(r.db.QueryRow(ctx, `
		DELETE FROM tags WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name`, id, userID))
}
