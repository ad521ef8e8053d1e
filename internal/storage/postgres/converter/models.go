package converter

import "time"

// ProductRow is a record of the products table. Nullable columns are
// pointers; PriceCents holds the price in minor currency units.
type ProductRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	PriceCents  *int64    `db:"price_cents"`
	Ingredients *string   `db:"ingredients"`
	Story       *string   `db:"story"`
	Emoji       *string   `db:"emoji"`
	Slug        *string   `db:"slug"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
