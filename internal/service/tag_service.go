package service

import (
	"context"
	"errors"
	"strings"

	dom "notesapi/internal/domain"
	"notesapi/internal/repo"
	"notesapi/internal/utils"

	"github.com/jackc/pgx/v5"
)

var ErrTagTaken = errors.New("tag already exists")

// TagService handles tag CRUD.
type TagService struct {
	repo repo.TagRepo
}

// NewTagService returns a new TagService.
func NewTagService(r repo.TagRepo) *TagService {
	return &TagService{repo: r}
}

func (s *TagService) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Tag, error) {
	return s.repo.List(ctx, userID, skip, limit)
}

func (s *TagService) GetByID(ctx context.Context, userID, id int64) (dom.Tag, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Tag{}, ErrNotFound
		}
		return dom.Tag{}, err
	}
	return t, nil
}

func (s *TagService) Create(ctx context.Context, userID int64, name string) (dom.Tag, error) {
	t, err := s.repo.Create(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Tag{}, ErrTagTaken
		}
		return dom.Tag{}, err
	}
	return t, nil
}

func (s *TagService) Update(ctx context.Context, userID, id int64, name string) (dom.Tag, error) {
	t, err := s.repo.Update(ctx, userID, id, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Tag{}, ErrNotFound
		}
		if utils.IsPGUniqueViolation(err) {
			return dom.Tag{}, ErrTagTaken
		}
		return dom.Tag{}, err
	}
	return t, nil
}

func (s *TagService) Delete(ctx context.Context, userID, id int64) (dom.Tag, error) {
	t, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Tag{}, ErrNotFound
		}
		return dom.Tag{}, err
	}
	return t, nil
}
