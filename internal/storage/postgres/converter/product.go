// Package converter translates between products table rows and domain
// products. It is the only place where minor-unit prices become decimals.
package converter

import (
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/vzdolci/catalog/internal/domain/product"
)

// minorUnitExp is the exponent of one minor currency unit (one cent).
const minorUnitExp = -2

// ErrPriceOutOfRange is returned when a price has no int64 minor-unit form.
var ErrPriceOutOfRange = errors.New("price out of minor-unit range")

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// ToDomain converts a row into a domain product. A nil row yields nil.
func ToDomain(row *ProductRow) *product.Product {
	if row == nil {
		return nil
	}
	return &product.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       centsToPrice(row.PriceCents),
		Ingredients: row.Ingredients,
		Story:       row.Story,
		Emoji:       row.Emoji,
		Slug:        row.Slug,
		Active:      row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// ToRow converts a domain product into a row. A nil product yields nil.
// A price whose cents overflow int64 yields ErrPriceOutOfRange.
func ToRow(p *product.Product) (*ProductRow, error) {
	if p == nil {
		return nil, nil
	}
	cents, err := priceToCents(p.Price)
	if err != nil {
		return nil, err
	}
	return &ProductRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  cents,
		Ingredients: p.Ingredients,
		Story:       p.Story,
		Emoji:       p.Emoji,
		Slug:        p.Slug,
		IsActive:    p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// ToDomainList converts rows preserving their order.
func ToDomainList(rows []ProductRow) []product.Product {
	products := make([]product.Product, len(rows))
	for i := range rows {
		products[i] = *ToDomain(&rows[i])
	}
	return products
}

func centsToPrice(cents *int64) decimal.NullDecimal {
	if cents == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.New(*cents, minorUnitExp))
}

// priceToCents rounds half away from zero to whole minor units.
func priceToCents(price decimal.NullDecimal) (*int64, error) {
	if !price.Valid {
		return nil, nil
	}
	shifted := price.Decimal.Shift(-minorUnitExp).Round(0)
	if shifted.LessThan(minCents) || shifted.GreaterThan(maxCents) {
		return nil, errors.Wrapf(ErrPriceOutOfRange, "price %s", price.Decimal)
	}
	cents := shifted.IntPart()
	return &cents, nil
}
