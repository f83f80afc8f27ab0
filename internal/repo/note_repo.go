package repo

import (
	"context"

	dom "notesapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteRepo provides note persistence. Every operation is scoped to the
// owning user; a note that exists but belongs to someone else behaves like
// a missing one (pgx.ErrNoRows).
type NoteRepo interface {
	List(ctx context.Context, userID int64, skip, limit int) ([]dom.Note, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Note, error)
	Create(ctx context.Context, userID int64, title, description string, tagIDs []int64) (dom.Note, error)
	Update(ctx context.Context, userID, id int64, title, description string, done bool, tagIDs []int64) (dom.Note, error)
	SetDone(ctx context.Context, userID, id int64, done bool) (dom.Note, error)
	Delete(ctx context.Context, userID, id int64) (dom.Note, error)
}

// PGNoteRepo implements NoteRepo with Postgres.
type PGNoteRepo struct {
	db *pgxpool.Pool
}

// NewPGNoteRepo returns a new PGNoteRepo.
func NewPGNoteRepo(db *pgxpool.Pool) *PGNoteRepo {
	return &PGNoteRepo{db: db}
}

const noteColumns = `id, user_id, title, description, done, created_at`

func scanNote(row pgx.Row) (dom.Note, error) {
	var n dom.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Done, &n.CreatedAt)
	return n, err
}

func (r *PGNoteRepo) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PGNoteRepo) GetByID(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		return dom.Note{}, err
	}
	list := []dom.Note{n}
	if err := r.attachTags(ctx, list); err != nil {
		return dom.Note{}, err
	}
	return list[0], nil
}

func (r *PGNoteRepo) Create(ctx context.Context, userID int64, title, description string, tagIDs []int64) (dom.Note, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Note{}, err
	}
	defer tx.Rollback(ctx)

	n, err := scanNote(tx.QueryRow(ctx, `
		INSERT INTO notes (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING `+noteColumns,
		userID, title, description))
	if err != nil {
		return dom.Note{}, err
	}
	if err := r.linkTags(ctx, tx, n.ID, userID, tagIDs); err != nil {
		return dom.Note{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Note{}, err
	}
	return r.GetByID(ctx, userID, n.ID)
}

func (r *PGNoteRepo) Update(ctx context.Context, userID, id int64, title, description string, done bool, tagIDs []int64) (dom.Note, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Note{}, err
	}
	defer tx.Rollback(ctx)

	n, err := scanNote(tx.QueryRow(ctx, `
		UPDATE notes SET title = $3, description = $4, done = $5
		WHERE id = $1 AND user_id = $2
		RETURNING `+noteColumns,
		id, userID, title, description, done))
	if err != nil {
		return dom.Note{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM note_m2m_tag WHERE note_id = $1`, n.ID); err != nil {
		return dom.Note{}, err
	}
	if err := r.linkTags(ctx, tx, n.ID, userID, tagIDs); err != nil {
		return dom.Note{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Note{}, err
	}
	return r.GetByID(ctx, userID, id)
}

func (r *PGNoteRepo) SetDone(ctx context.Context, userID, id int64, done bool) (dom.Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx, `
		UPDATE notes SET done = $3
		WHERE id = $1 AND user_id = $2
		RETURNING `+noteColumns,
		id, userID, done))
	if err != nil {
		return dom.Note{}, err
	}
	list := []dom.Note{n}
	if err := r.attachTags(ctx, list); err != nil {
		return dom.Note{}, err
	}
	return list[0], nil
}

func (r *PGNoteRepo) Delete(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Note{}, err
	}
	// note_m2m_tag rows go with the note via ON DELETE CASCADE.
	if _, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return dom.Note{}, err
	}
	return n, nil
}

// linkTags attaches the caller's own tags to a note; foreign tag IDs are
// silently dropped.
func (r *PGNoteRepo) linkTags(ctx context.Context, tx pgx.Tx, noteID, userID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO note_m2m_tag (note_id, tag_id)
		SELECT $1, id FROM tags WHERE id = ANY($2) AND user_id = $3`,
		noteID, tagIDs, userID)
	return err
}

// attachTags fills Tags for every note in list with one query.
func (r *PGNoteRepo) attachTags(ctx context.Context, list []dom.Note) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	rows, err := r.db.Query(ctx, `
		SELECT m.note_id, t.id, t.user_id, t.name
		FROM note_m2m_tag m
		JOIN tags t ON t.id = m.tag_id
		WHERE m.note_id = ANY($1)
		ORDER BY t.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byNote := make(map[int64][]dom.Tag, len(list))
	for rows.Next() {
		var noteID int64
		var t dom.Tag
		if err := rows.Scan(&noteID, &t.ID, &t.UserID, &t.Name); err != nil {
			return err
		}
		byNote[noteID] = append(byNote[noteID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range list {
		list[i].Tags = byNote[list[i].ID]
	}
	return nil
}
