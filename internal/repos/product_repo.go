package repos

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"shopshelf/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// productRow mirrors the table; dates travel as RFC3339 text in sqlite.
type productRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Brand        string  `db:"brand"`
	SKU          string  `db:"sku"`
	Category     string  `db:"category"`
	Price        float64 `db:"price"`
	Stock        int     `db:"stock"`
	ReleaseDate  string  `db:"release_date"`
	ImageURL     *string `db:"image_url"`
	NotAvailable bool    `db:"not_available"`
	CreatedAt    string  `db:"created_at"`
}

func (row productRow) toDomain() domain.Product {
	rel, _ := time.Parse(time.RFC3339, row.ReleaseDate)
	crt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return domain.Product{
		ID:           row.ID,
		Name:         row.Name,
		Brand:        row.Brand,
		SKU:          row.SKU,
		Category:     domain.Category(row.Category),
		Price:        row.Price,
		Stock:        row.Stock,
		ReleaseDate:  rel,
		ImageURL:     row.ImageURL,
		NotAvailable: row.NotAvailable,
		CreatedAt:    crt,
	}
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,brand,sku,category,price,stock,release_date,image_url,not_available,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Brand, p.SKU, string(p.Category), p.Price, p.Stock,
		p.ReleaseDate.UTC().Format(time.RFC3339), p.ImageURL, p.NotAvailable,
		p.CreatedAt.UTC().Format(time.RFC3339))
	return mapConflict(err)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	if err := r.db.Get(&row, `SELECT * FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) All() ([]domain.Product, error) {
	var rows []productRow
	err := r.db.Select(&rows, `SELECT * FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) ExistsSKU(sku string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE sku = ?`, sku)
	return n > 0, err
}

func (r *ProductRepo) ExistsNameBrand(name, brand string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE name = ? AND brand = ?`, name, brand)
	return n > 0, err
}

// CountCreatedSince backs the daily creation cap; t is the UTC midnight
// boundary, compared lexically against the stored RFC3339 text.
func (r *ProductRepo) CountCreatedSince(t time.Time) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE created_at >= ?`,
		t.UTC().Format(time.RFC3339))
	return n, err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, brand = ?, price = ?, stock = ?, image_url = ?, not_available = ?
	  WHERE id = ?
	`, p.Name, p.Brand, p.Price, p.Stock, p.ImageURL, p.NotAvailable, p.ID)
	if err != nil {
		return mapConflict(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapConflict turns sqlite unique-index violations into the duplicate error
// kind so racing inserts that slip past the pre-check still reject cleanly.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "products.sku"):
		return domain.Duplicatef("a product with this SKU already exists")
	case strings.Contains(msg, "products.name"):
		return domain.Duplicatef("a product with this name and brand already exists")
	case strings.Contains(msg, "books.title"):
		return domain.Duplicatef("a book with this title and author already exists")
	}
	return domain.Duplicatef("duplicate record")
}
