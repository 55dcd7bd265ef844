package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog data if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL,
  sku TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('ELECTRONICS','CLOTHING','BOOKS','HOME')),
  price NUMERIC NOT NULL CHECK (price > 0),
  stock INTEGER NOT NULL DEFAULT 1 CHECK (stock >= 0),
  release_date TEXT NOT NULL,
  image_url TEXT,
  not_available INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
-- Uniqueness is enforced here; the pre-insert checks only improve messages.
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku        ON products(sku);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_brand ON products(name, brand);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Books
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  year INTEGER NOT NULL,
  price NUMERIC NOT NULL CHECK (price > 0),
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_books_title_author ON books(title, author);
CREATE INDEX IF NOT EXISTS idx_books_author ON books(LOWER(author));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/books")

	now := time.Now().UTC().Format(time.RFC3339)
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,brand,sku,category,price,stock,release_date,image_url,not_available,created_at) VALUES
	  ('p-seed-001','Wireless Noise-Cancelling Headphones','Sonance','SON-WH-1000','ELECTRONICS',279.99,12,'2024-11-02T00:00:00Z','https://img.shopshelf.test/son-wh-1000.jpg',0,?),
	  ('p-seed-002','Linen Throw Blanket','Hearth and Co','HRT-BLK-010','HOME',59.50,30,'2023-03-15T00:00:00Z',NULL,0,?),
	  ('p-seed-003','Canvas Field Jacket','Northgate','NG-JKT-204','CLOTHING',149.00,8,'2022-09-01T00:00:00Z',NULL,0,?)`,
		now, now, now)
	tx.MustExec(`INSERT INTO books(id,title,author,year,price,created_at) VALUES
	  ('b-seed-001','The Left Hand of Darkness','Ursula K. Le Guin',1969,14.99,?),
	  ('b-seed-002','Snow Crash','Neal Stephenson',1992,12.50,?),
	  ('b-seed-003','Piranesi','Susanna Clarke',2020,18.00,?)`,
		now, now, now)

	return tx.Commit()
}
