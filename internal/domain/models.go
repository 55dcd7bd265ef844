package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryBooks       Category = "BOOKS"
	CategoryHome        Category = "HOME"
)

var categories = map[Category]bool{
	CategoryElectronics: true,
	CategoryClothing:    true,
	CategoryBooks:       true,
	CategoryHome:        true,
}

// ParseCategory matches case-insensitively so clients may send "home" or "HOME".
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, categories[c]
}

func (c Category) Valid() bool { return categories[c] }

// Product is the persisted catalog entity. Price holds the original,
// unreduced value; category discounts are applied at derivation time only.
type Product struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Brand        string    `db:"brand"`
	SKU          string    `db:"sku"`
	Category     Category  `db:"category"`
	Price        float64   `db:"price"`
	Stock        int       `db:"stock"`
	ReleaseDate  time.Time `db:"release_date"`
	ImageURL     *string   `db:"image_url"`
	NotAvailable bool      `db:"not_available"`
	CreatedAt    time.Time `db:"created_at"`
}

// Candidate is a proposed product before persistence: no identity yet,
// category still raw (an unknown category is a violation, not a bind error).
type Candidate struct {
	Name        string
	Brand       string
	SKU         string
	Category    string
	Price       float64
	ReleaseDate time.Time
	ImageURL    *string
	Stock       int
}

type Book struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Author    string    `db:"author"`
	Year      int       `db:"year"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProductView is the read projection: entity fields plus display values
// recomputed on every read. Never persisted.
type ProductView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	SKU            string   `json:"sku"`
	Category       Category `json:"category"`
	CategoryLabel  string   `json:"categoryLabel"`
	Price          float64  `json:"price"`
	EffectivePrice float64  `json:"effectivePrice"`
	DisplayPrice   string   `json:"displayPrice"`
	AgeBucket      string   `json:"ageBucket"`
	BrandInitials  string   `json:"brandInitials"`
	Availability   string   `json:"availability"`
	ImageURL       *string  `json:"imageUrl,omitempty"`
	Stock          int      `json:"stock"`
	ReleaseDate    string   `json:"releaseDate"`
	CreatedAt      string   `json:"createdAt"`
}

// ---- transport DTOs ----

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Brand       string  `json:"brand" validate:"required,min=2,max=100"`
	SKU         string  `json:"sku" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ReleaseDate string  `json:"releaseDate" validate:"required"`
	ImageURL    *string `json:"imageUrl"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
}

// UpdateProductRequest patches individual fields; nil means "leave as is".
type UpdateProductRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Brand        *string  `json:"brand" validate:"omitempty,min=2,max=100"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0,lt=10000"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0,lte=100000"`
	ImageURL     *string  `json:"imageUrl"`
	NotAvailable *bool    `json:"notAvailable"`
}

type CreateBookRequest struct {
	Title  string  `json:"title" validate:"required,max=200"`
	Author string  `json:"author" validate:"required,min=2,max=100"`
	Year   int     `json:"year" validate:"required,gte=1450"`
	Price  float64 `json:"price" validate:"required,gt=0,lt=10000"`
}

type UpdateBookRequest struct {
	Title  *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Author *string  `json:"author" validate:"omitempty,min=2,max=100"`
	Year   *int     `json:"year" validate:"omitempty,gte=1450"`
	Price  *float64 `json:"price" validate:"omitempty,gt=0,lt=10000"`
}

// BookQuery is the parsed /books/search input.
type BookQuery struct {
	Page     int
	PageSize int
	Author   string
	// Exact switches the author filter from substring to exact match.
	Exact  bool
	SortBy string // title | year | id
	Desc   bool
}
