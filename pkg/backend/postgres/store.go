// Package postgres persists storefront products in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/goliatone/go-formflow/pkg/backend"
	"github.com/goliatone/go-formflow/pkg/storefront"
)

// ErrNotFound is returned when no product matches the id.
var ErrNotFound = errors.New("postgres: product not found")

// Schema creates the products table.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id                BIGSERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	slug              TEXT NOT NULL UNIQUE,
	description       TEXT NOT NULL DEFAULT '',
	featured          BOOLEAN NOT NULL DEFAULT FALSE,
	badge             TEXT,
	rating            DOUBLE PRECISION NOT NULL DEFAULT 0,
	tags              TEXT[] NOT NULL DEFAULT '{}',
	price             DOUBLE PRECISION NOT NULL DEFAULT 0,
	featured_image_id BIGINT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const productColumns = `id, name, slug, description, featured, badge, rating, tags, price, featured_image_id`

// Store implements storefront.ProductStore.
type Store struct {
	db *sqlx.DB
}

var _ storefront.ProductStore = (*Store)(nil)

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn with the lib/pq driver and pings the server.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// Migrate creates the products table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

type productRow struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	Slug            string         `db:"slug"`
	Description     string         `db:"description"`
	Featured        bool           `db:"featured"`
	Badge           sql.NullString `db:"badge"`
	Rating          float64        `db:"rating"`
	Tags            pq.StringArray `db:"tags"`
	Price           float64        `db:"price"`
	FeaturedImageID sql.NullInt64  `db:"featured_image_id"`
}

func (r productRow) product() storefront.Product {
	return storefront.Product{
		ID:              r.ID,
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		Featured:        r.Featured,
		Badge:           r.Badge.String,
		Rating:          r.Rating,
		Tags:            []string(r.Tags),
		Price:           r.Price,
		FeaturedImageID: r.FeaturedImageID.Int64,
	}
}

func args(p storefront.Product) []any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{
		p.Name,
		p.Slug,
		p.Description,
		p.Featured,
		sql.NullString{String: p.Badge, Valid: p.Badge != ""},
		p.Rating,
		pq.Array(tags),
		p.Price,
		sql.NullInt64{Int64: p.FeaturedImageID, Valid: p.FeaturedImageID != 0},
	}
}

// Create inserts product and returns the stored row.
func (s *Store) Create(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	var row productRow
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO products (name, slug, description, featured, badge, rating, tags, price, featured_image_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns, args(product)...).StructScan(&row)
	if err != nil {
		return storefront.Product{}, translate("create", err)
	}
	return row.product(), nil
}

// Update overwrites the product with product.ID.
func (s *Store) Update(ctx context.Context, product storefront.Product) (storefront.Product, error) {
	if product.ID == 0 {
		return storefront.Product{}, storefront.ErrMissingProductID
	}
	var row productRow
	err := s.db.QueryRowxContext(ctx, `
		UPDATE products
		SET name = $2, slug = $3, description = $4, featured = $5, badge = $6,
			rating = $7, tags = $8, price = $9, featured_image_id = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, append([]any{product.ID}, args(product)...)...).StructScan(&row)
	if err != nil {
		return storefront.Product{}, translate("update", err)
	}
	return row.product(), nil
}

// Get loads one product, used to seed the edit form.
func (s *Store) Get(ctx context.Context, id int64) (storefront.Product, error) {
	var row productRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = $1`, id); err != nil {
		return storefront.Product{}, translate("get", err)
	}
	return row.product(), nil
}

func translate(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == backend.UniqueViolationCode {
		return backend.UniqueViolation(pqErr.Detail, pqErr.Constraint, http.StatusConflict, err)
	}
	return fmt.Errorf("postgres: %s product: %w", op, err)
}
