package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"shopshelf/internal/cache"
	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
)

const bookListKey = "books:all"

// BookService follows the same create template as products, minus the
// product-specific rule tiers: shape checks happen at the handler edge,
// uniqueness and persistence here.
type BookService struct {
	Repo  *repos.BookRepo
	Cache cache.Cache
	Obs   applog.Observer
	Now   func() time.Time
}

func NewBookService(repo *repos.BookRepo, c cache.Cache, obs applog.Observer) *BookService {
	return &BookService{Repo: repo, Cache: c, Obs: obs, Now: time.Now}
}

func (s *BookService) Create(ctx context.Context, req domain.CreateBookRequest) (domain.Book, error) {
	now := s.Now().UTC()

	if req.Year > now.Year() {
		return domain.Book{}, &domain.ValidationError{Violations: domain.ViolationList{
			{Field: "year", Message: "cannot be in the future"},
		}}
	}

	dup, err := s.Repo.ExistsTitleAuthor(req.Title, req.Author)
	if err != nil {
		return domain.Book{}, err
	}
	if dup {
		s.Obs.Event("book.duplicate", map[string]any{"title": req.Title})
		return domain.Book{}, domain.Duplicatef("a book titled %q by %q already exists", req.Title, req.Author)
	}

	b := domain.Book{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Author:    req.Author,
		Year:      req.Year,
		Price:     req.Price,
		CreatedAt: now,
	}
	if err := s.Repo.Insert(b); err != nil {
		s.Obs.Event("book.db.insert.fail", map[string]any{"title": req.Title, "err": err.Error()})
		return domain.Book{}, err
	}
	s.Obs.Event("book.db.insert", map[string]any{"id": b.ID})
	s.invalidateList(ctx)
	return b, nil
}

func (s *BookService) Get(ctx context.Context, id string) (domain.Book, error) {
	b, err := s.Repo.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Book{}, domain.ErrNotFound
		}
		return domain.Book{}, err
	}
	return b, nil
}

func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := s.Cache.Get(ctx, bookListKey, &books); err == nil {
		return books, nil
	} else if err != cache.ErrMiss {
		s.Obs.Event("book.cache.get.fail", map[string]any{"err": err.Error()})
	}

	books, err := s.Repo.All()
	if err != nil {
		return nil, err
	}
	if cerr := s.Cache.Set(ctx, bookListKey, books, listTTL); cerr != nil {
		s.Obs.Event("book.cache.set.fail", map[string]any{"err": cerr.Error()})
	}
	return books, nil
}

func (s *BookService) Search(ctx context.Context, q domain.BookQuery) ([]domain.Book, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 12
	}
	offset := (q.Page - 1) * q.PageSize
	return s.Repo.Search(q, q.PageSize, offset)
}

func (s *BookService) Update(ctx context.Context, id string, req domain.UpdateBookRequest) (domain.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Year != nil {
		b.Year = *req.Year
	}
	if req.Price != nil {
		b.Price = *req.Price
	}
	b.UpdatedAt = s.Now().UTC()

	if err := s.Repo.Update(b); err != nil {
		return domain.Book{}, err
	}
	s.invalidateList(ctx)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateList(ctx)
	return nil
}

func (s *BookService) invalidateList(ctx context.Context) {
	if err := s.Cache.Remove(ctx, bookListKey); err != nil {
		s.Obs.Event("book.cache.invalidate.fail", map[string]any{"err": err.Error()})
	}
}
