package repos

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"shopshelf/internal/domain"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

type bookRow struct {
	ID        string  `db:"id"`
	Title     string  `db:"title"`
	Author    string  `db:"author"`
	Year      int     `db:"year"`
	Price     float64 `db:"price"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

func (row bookRow) toDomain() domain.Book {
	crt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	upd, _ := time.Parse(time.RFC3339, row.UpdatedAt)
	return domain.Book{
		ID:        row.ID,
		Title:     row.Title,
		Author:    row.Author,
		Year:      row.Year,
		Price:     row.Price,
		CreatedAt: crt,
		UpdatedAt: upd,
	}
}

const bookCols = `id, title, author, year, price, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *BookRepo) Insert(b domain.Book) error {
	_, err := r.db.Exec(`
	  INSERT INTO books(id,title,author,year,price,created_at)
	  VALUES(?,?,?,?,?,?)
	`, b.ID, b.Title, b.Author, b.Year, b.Price, b.CreatedAt.UTC().Format(time.RFC3339))
	return mapConflict(err)
}

func (r *BookRepo) Get(id string) (domain.Book, error) {
	var row bookRow
	if err := r.db.Get(&row, `SELECT `+bookCols+` FROM books WHERE id = ?`, id); err != nil {
		return domain.Book{}, err
	}
	return row.toDomain(), nil
}

func (r *BookRepo) All() ([]domain.Book, error) {
	var rows []bookRow
	err := r.db.Select(&rows, `SELECT `+bookCols+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BookRepo) ExistsTitleAuthor(title, author string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM books WHERE title = ? AND author = ?`, title, author)
	return n > 0, err
}

// Search applies the author filter and sort order with a LIMIT/OFFSET window.
func (r *BookRepo) Search(q domain.BookQuery, limit, offset int) ([]domain.Book, error) {
	where := `1=1`
	args := []any{}
	if q.Author != "" {
		if q.Exact {
			where += ` AND author = ?`
			args = append(args, q.Author)
		} else {
			where += ` AND LOWER(author) LIKE ?`
			args = append(args, "%"+strings.ToLower(q.Author)+"%")
		}
	}

	// sort column is whitelisted, never interpolated from raw input
	col := "id"
	switch q.SortBy {
	case "title":
		col = "title"
	case "year":
		col = "year"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	sql := `SELECT ` + bookCols + ` FROM books WHERE ` + where +
		` ORDER BY ` + col + ` ` + dir + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []bookRow
	if err := r.db.Select(&rows, sql, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BookRepo) Update(b domain.Book) error {
	res, err := r.db.Exec(`
	  UPDATE books SET title = ?, author = ?, year = ?, price = ?, updated_at = ?
	  WHERE id = ?
	`, b.Title, b.Author, b.Year, b.Price, b.UpdatedAt.UTC().Format(time.RFC3339), b.ID)
	if err != nil {
		return mapConflict(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
