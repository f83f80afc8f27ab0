package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"notesapi/internal/cache"
	dom "notesapi/internal/domain"
	"notesapi/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

// NoteService handles note CRUD with a cached list path.
type NoteService struct {
	repo  repo.NoteRepo
	cache *cache.NoteCache
	sf    singleflight.Group
}

// NewNoteService creates a NoteService. If c is nil, caching is disabled.
func NewNoteService(r repo.NoteRepo, c *cache.NoteCache) *NoteService {
	return &NoteService{repo: r, cache: c}
}

func (s *NoteService) Create(ctx context.Context, userID int64, title, description string, tagIDs []int64) (dom.Note, error) {
	n, err := s.repo.Create(ctx, userID, strings.TrimSpace(title), strings.TrimSpace(description), tagIDs)
	if err != nil {
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

func (s *NoteService) List(ctx context.Context, userID int64, skip, limit int) ([]dom.Note, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10) +
			":" + strconv.Itoa(skip) + ":" + strconv.Itoa(limit)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID, skip, limit); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID, skip, limit)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, skip, limit, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Note), nil
	}
	return s.repo.List(ctx, userID, skip, limit)
}

func (s *NoteService) GetByID(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id int64, title, description string, done bool, tagIDs []int64) (dom.Note, error) {
	n, err := s.repo.Update(ctx, userID, id, strings.TrimSpace(title), strings.TrimSpace(description), done, tagIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

func (s *NoteService) SetDone(ctx context.Context, userID, id int64, done bool) (dom.Note, error) {
	n, err := s.repo.SetDone(ctx, userID, id, done)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidateCache(ctx, userID)
	return n, nil
}

func (s *NoteService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
