package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/vzdolci/catalog/internal/domain/product"
	"github.com/vzdolci/catalog/internal/storage/postgres/converter"
)

const productColumns = `id, name, description, price_cents, ingredients, story, emoji, slug, is_active, created_at, updated_at`

const (
	listProductsSQL = `SELECT ` + productColumns + `
		FROM products ORDER BY id`

	listActiveProductsSQL = `SELECT ` + productColumns + `
		FROM products WHERE is_active ORDER BY id`

	getProductByIDSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = $1`

	getProductBySlugSQL = `SELECT ` + productColumns + `
		FROM products WHERE slug = $1`

	insertProductSQL = `INSERT INTO products (name, description, price_cents, ingredients, story, emoji, slug, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns

	updateProductSQL = `UPDATE products
		SET name = $2, description = $3, price_cents = $4, ingredients = $5,
			story = $6, emoji = $7, slug = $8, is_active = $9
		WHERE id = $1
		RETURNING ` + productColumns

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
// Rows are read as converter.ProductRow and leave the package as
// product.Product.
type ProductRepository struct {
	db DB
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindAll returns all products ordered by ID.
func (r *ProductRepository) FindAll(ctx context.Context) ([]product.Product, error) {
	rows, err := r.collect(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return converter.ToDomainList(rows), nil
}

// FindActive returns the active products ordered by ID.
func (r *ProductRepository) FindActive(ctx context.Context) ([]product.Product, error) {
	rows, err := r.collect(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	return converter.ToDomainList(rows), nil
}

// FindByID returns a single product by its identifier, or product.ErrNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	row, err := r.collectOne(ctx, getProductByIDSQL, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return converter.ToDomain(row), nil
}

// FindBySlug returns a single product by its slug, or product.ErrNotFound.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*product.Product, error) {
	row, err := r.collectOne(ctx, getProductBySlugSQL, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product by slug %q: %w", slug, err)
	}
	return converter.ToDomain(row), nil
}

// Save inserts a new product or updates an existing one and returns the
// stored state, including the assigned ID and timestamps. Updating an ID
// that does not exist returns product.ErrNotFound.
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) (*product.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	row, err := converter.ToRow(p)
	if err != nil {
		return nil, err
	}
	if p.IsNew() {
		saved, err := r.collectOne(ctx, insertProductSQL,
			row.Name, row.Description, row.PriceCents, row.Ingredients,
			row.Story, row.Emoji, row.Slug, row.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting product %q: %w", p.Name, err)
		}
		return converter.ToDomain(saved), nil
	}

	saved, err := r.collectOne(ctx, updateProductSQL,
		row.ID, row.Name, row.Description, row.PriceCents, row.Ingredients,
		row.Story, row.Emoji, row.Slug, row.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	return converter.ToDomain(saved), nil
}

// DeleteByID removes the product with the given ID. Deleting a missing
// product is not an error.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, deleteProductSQL, id); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

func (r *ProductRepository) collect(ctx context.Context, sql string, args ...any) ([]converter.ProductRow, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductRow])
}

func (r *ProductRepository) collectOne(ctx context.Context, sql string, args ...any) (*converter.ProductRow, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductRow])
	if err != nil {
		return nil, err
	}
	return &row, nil
}
