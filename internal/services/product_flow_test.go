package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"shopshelf/internal/cache"
	"shopshelf/internal/config"
	"shopshelf/internal/domain"
	applog "shopshelf/internal/log"
	"shopshelf/internal/repos"
	"shopshelf/internal/rules"
	"shopshelf/internal/services"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT, brand TEXT, sku TEXT,
	  category TEXT, price NUMERIC, stock INTEGER, release_date TEXT,
	  image_url TEXT, not_available INTEGER DEFAULT 0, created_at TEXT);
	CREATE UNIQUE INDEX idx_products_sku ON products(sku);
	CREATE UNIQUE INDEX idx_products_name_brand ON products(name, brand);
	CREATE TABLE books(id TEXT PRIMARY KEY, title TEXT, author TEXT, year INTEGER,
	  price NUMERIC, created_at TEXT, updated_at TEXT);
	CREATE UNIQUE INDEX idx_books_title_author ON books(title, author);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newProductService(t *testing.T) (*services.ProductService, *repos.ProductRepo) {
	t.Helper()
	repo := repos.NewProductRepo(memdb(t))
	engine := rules.NewEngine(config.DefaultRuleData(), repo)
	svc := services.NewProductService(repo, cache.NewMemory(), engine, applog.NopObserver{})
	svc.Now = func() time.Time { return now }
	return svc, repo
}

func candidate() domain.Candidate {
	return domain.Candidate{
		Name:        "Field Jacket",
		Brand:       "Tech Innovations Inc",
		SKU:         "TII-JKT-100",
		Category:    "CLOTHING",
		Price:       89.0,
		ReleaseDate: now.AddDate(0, -2, 0),
		Stock:       10,
	}
}

func TestCreate_HappyPath(t *testing.T) {
	svc, repo := newProductService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, candidate())
	if err != nil {
		t.Fatal(err)
	}
	if view.ID == "" {
		t.Fatal("no id assigned")
	}
	if view.BrandInitials != "TI" {
		t.Errorf("initials = %q, want TI", view.BrandInitials)
	}
	if view.AgeBucket != "2 months old" {
		t.Errorf("age bucket = %q", view.AgeBucket)
	}
	if view.Availability != "In Stock" {
		t.Errorf("availability = %q", view.Availability)
	}
	if view.DisplayPrice != "$89.00" {
		t.Errorf("display price = %q", view.DisplayPrice)
	}

	// persisted exactly once, with the injected clock
	p, err := repo.Get(view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", p.CreatedAt, now)
	}
}

func TestCreate_RejectionsNeverPersist(t *testing.T) {
	svc, repo := newProductService(t)
	ctx := context.Background()

	c := candidate()
	c.Price = -1
	_, err := svc.Create(ctx, c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}

	c = candidate()
	c.Price = 750
	c.Stock = 15 // passes cross-field; the >500 limit is a business check
	_, err = svc.Create(ctx, c)
	var bre *domain.BusinessRuleError
	if !errors.As(err, &bre) {
		t.Fatalf("want business rule error, got %v", err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected candidates were persisted: %d rows", len(all))
	}
}

func TestCreate_DuplicateSKU(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, candidate()); err != nil {
		t.Fatal(err)
	}

	second := candidate()
	second.Name = "Other Jacket"
	second.Brand = "Someone Else"
	_, err := svc.Create(ctx, second)
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("second create with same SKU: want duplicate, got %v", err)
	}
}

func TestCreate_HomeDerivation(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	img := "https://cdn.test/blanket.jpg"
	c := domain.Candidate{
		Name:        "Linen Throw Blanket",
		Brand:       "Hearth and Co",
		SKU:         "HRT-BLK-010",
		Category:    "HOME",
		Price:       100,
		ReleaseDate: now.AddDate(0, -1, 0),
		ImageURL:    &img,
		Stock:       30,
	}
	view, err := svc.Create(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	if view.EffectivePrice != 90 {
		t.Errorf("home effective price = %v, want 90", view.EffectivePrice)
	}
	if view.ImageURL != nil {
		t.Errorf("home view must omit image")
	}
	if view.Price != 100 {
		t.Errorf("stored price = %v, want 100", view.Price)
	}
}

func TestList_CacheInvalidatedOnCreate(t *testing.T) {
	svc, repo := newProductService(t)
	ctx := context.Background()

	// warm the cache
	views, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty list, got %d", len(views))
	}

	// a write that bypasses the service is invisible while the cache holds
	ghost := domain.Product{
		ID: "ghost", Name: "Ghost Item", Brand: "Ghostly", SKU: "GH-001-XX",
		Category: domain.CategoryBooks, Price: 5, Stock: 1,
		ReleaseDate: now.AddDate(-1, 0, 0), CreatedAt: now,
	}
	if err := repo.Insert(ghost); err != nil {
		t.Fatal(err)
	}
	views, _ = svc.List(ctx)
	if len(views) != 0 {
		t.Fatalf("cache should still serve the stale empty list, got %d", len(views))
	}

	// a create through the flow invalidates; the very next read is fresh
	if _, err := svc.Create(ctx, candidate()); err != nil {
		t.Fatal(err)
	}
	views, err = svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("post-create list = %d entries, want 2", len(views))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, candidate())
	if err != nil {
		t.Fatal(err)
	}

	newStock := 0
	flag := true
	updated, err := svc.Update(ctx, view.ID, domain.UpdateProductRequest{
		Stock:        &newStock,
		NotAvailable: &flag,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Availability != "Out of Stock" {
		t.Errorf("availability after flagging = %q", updated.Availability)
	}

	if err := svc.Delete(ctx, view.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, view.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found after delete, got %v", err)
	}

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleting missing id: %v", err)
	}
}
