package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopshelf/internal/cache"
	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
	"shopshelf/internal/services"
)

func newBookService(t *testing.T) *services.BookService {
	t.Helper()
	repo := repos.NewBookRepo(memdb(t))
	svc := services.NewBookService(repo, cache.NewMemory(), applog.NopObserver{})
	svc.Now = func() time.Time { return now }
	return svc
}

func seedBooks(t *testing.T, svc *services.BookService) {
	t.Helper()
	ctx := context.Background()
	reqs := []domain.CreateBookRequest{
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Year: 1969, Price: 14.99},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Year: 1968, Price: 9.99},
		{Title: "Snow Crash", Author: "Neal Stephenson", Year: 1992, Price: 12.50},
		{Title: "Piranesi", Author: "Susanna Clarke", Year: 2020, Price: 18.00},
	}
	for _, r := range reqs {
		if _, err := svc.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBookCreate_DuplicateTitleAuthor(t *testing.T) {
	svc := newBookService(t)
	ctx := context.Background()

	req := domain.CreateBookRequest{Title: "Piranesi", Author: "Susanna Clarke", Year: 2020, Price: 18}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("want duplicate, got %v", err)
	}

	// same title by another author is fine
	req.Author = "Someone Else"
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatal(err)
	}
}

func TestBookCreate_FutureYear(t *testing.T) {
	svc := newBookService(t)
	req := domain.CreateBookRequest{Title: "Tomorrow", Author: "Nobody Yet", Year: now.Year() + 1, Price: 10}
	_, err := svc.Create(context.Background(), req)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestBookSearch_FilterSortPaginate(t *testing.T) {
	svc := newBookService(t)
	seedBooks(t, svc)
	ctx := context.Background()

	// substring author filter
	books, err := svc.Search(ctx, domain.BookQuery{Author: "le guin", SortBy: "year"})
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 || books[0].Year != 1968 {
		t.Fatalf("le guin asc by year: %+v", books)
	}

	// exact match is case-sensitive and whole-string
	books, err = svc.Search(ctx, domain.BookQuery{Author: "le guin", Exact: true, SortBy: "year"})
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 0 {
		t.Fatalf("exact lowercase should match nothing, got %d", len(books))
	}

	// sort by title descending
	books, err = svc.Search(ctx, domain.BookQuery{SortBy: "title", Desc: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 4 || books[0].Title != "The Left Hand of Darkness" {
		t.Fatalf("title desc: %+v", books)
	}

	// pagination windows
	page1, err := svc.Search(ctx, domain.BookQuery{Page: 1, PageSize: 3, SortBy: "title"})
	if err != nil {
		t.Fatal(err)
	}
	page2, err := svc.Search(ctx, domain.BookQuery{Page: 2, PageSize: 3, SortBy: "title"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 3 || len(page2) != 1 {
		t.Fatalf("pages: %d + %d", len(page1), len(page2))
	}
}

func TestBookList_CachedAndInvalidated(t *testing.T) {
	svc := newBookService(t)
	ctx := context.Background()

	books, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 0 {
		t.Fatalf("expected empty list, got %d", len(books))
	}

	if _, err := svc.Create(ctx, domain.CreateBookRequest{
		Title: "Snow Crash", Author: "Neal Stephenson", Year: 1992, Price: 12.50,
	}); err != nil {
		t.Fatal(err)
	}

	books, err = svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 {
		t.Fatalf("list after create = %d, want 1", len(books))
	}
}

func TestBookUpdateDelete(t *testing.T) {
	svc := newBookService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, domain.CreateBookRequest{
		Title: "Piranesi", Author: "Susanna Clarke", Year: 2020, Price: 18,
	})
	if err != nil {
		t.Fatal(err)
	}

	price := 15.0
	updated, err := svc.Update(ctx, b.ID, domain.UpdateBookRequest{Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 15 || updated.Title != "Piranesi" {
		t.Fatalf("partial update: %+v", updated)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("updated_at not set")
	}

	if err := svc.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
