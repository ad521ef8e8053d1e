package product

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Column bounds of the products table.
const (
	MaxNameLength  = 150
	MaxEmojiLength = 16
	MaxSlugLength  = 160

	// MaxPriceCents is the largest price, in minor units, that the
	// price_cents column holds.
	MaxPriceCents = math.MaxInt32
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Validation errors returned by Product.Validate.
var (
	ErrNilProduct    = errors.New("product is nil")
	ErrInvalidName   = errors.New("product name is required")
	ErrNameTooLong   = errors.New("product name is too long")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrPriceTooLarge = errors.New("product price is too large")
	ErrEmojiTooLong  = errors.New("product emoji is too long")
	ErrSlugTooLong   = errors.New("product slug is too long")
)

// NotFoundError reports a lookup miss together with the requested key.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	ID   int64
	Slug string
}

func (e *NotFoundError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("product with slug %q not found", e.Slug)
	}
	return fmt.Sprintf("product %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Product is a bakery item in the catalog.
type Product struct {
	// ID is assigned by storage on first save. Zero means not yet persisted.
	ID          int64
	Name        string
	Description *string
	// Price is an exact currency amount. An invalid NullDecimal means the
	// price is unknown.
	Price       decimal.NullDecimal
	Ingredients *string
	Story       *string
	Emoji       *string
	Slug        *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the product has not been persisted yet.
func (p *Product) IsNew() bool {
	return p.ID == 0
}

// Validate checks the invariants storage enforces on a product.
func (p *Product) Validate() error {
	switch {
	case p == nil:
		return ErrNilProduct
	case p.Name == "":
		return ErrInvalidName
	case utf8.RuneCountInString(p.Name) > MaxNameLength:
		return ErrNameTooLong
	case p.Price.Valid && p.Price.Decimal.IsNegative():
		return ErrNegativePrice
	case p.Price.Valid && p.Price.Decimal.Shift(2).Round(0).GreaterThan(decimal.NewFromInt(MaxPriceCents)):
		return ErrPriceTooLarge
	case p.Emoji != nil && utf8.RuneCountInString(*p.Emoji) > MaxEmojiLength:
		return ErrEmojiTooLong
	case p.Slug != nil && utf8.RuneCountInString(*p.Slug) > MaxSlugLength:
		return ErrSlugTooLong
	}
	return nil
}

// Repository defines lookup and persistence operations for the catalog.
// Lookups of a single product return ErrNotFound when nothing matches.
type Repository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindActive(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, p *Product) (*Product, error)
	DeleteByID(ctx context.Context, id int64) error
}
