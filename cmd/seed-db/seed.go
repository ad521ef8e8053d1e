package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vzdolci/catalog/internal/domain/product"
)

// seedProduct is one entry of the seed file.
type seedProduct struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Ingredients *string             `json:"ingredients"`
	Story       *string             `json:"story"`
	Emoji       *string             `json:"emoji"`
	Slug        string              `json:"slug"`
	Active      bool                `json:"active"`
}

func (s seedProduct) toDomain() *product.Product {
	slug := s.Slug
	return &product.Product{
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Ingredients: s.Ingredients,
		Story:       s.Story,
		Emoji:       s.Emoji,
		Slug:        &slug,
		Active:      s.Active,
	}
}

// readSeed decodes the seed file and checks that slugs are present and
// unique, since they are the upsert key. Every entry needs a price: the
// products table has no unknown-price state.
func readSeed(r io.Reader) ([]seedProduct, error) {
	var products []seedProduct
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if p.Slug == "" {
			return nil, errors.Errorf("product #%d (%q) has no slug", i, p.Name)
		}
		if !p.Price.Valid {
			return nil, errors.Errorf("product %q has no price", p.Slug)
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, errors.Errorf("duplicate slug %q", p.Slug)
		}
		seen[p.Slug] = struct{}{}
	}
	return products, nil
}

type seedResult struct {
	inserted int
	updated  int
}

type seeder struct {
	products    product.Repository
	lg          *zap.Logger
	concurrency int
}

// seed upserts every product by slug: an existing slug is updated in place,
// a new one is inserted. Work is spread over at most s.concurrency
// goroutines and stops at the first error.
func (s *seeder) seed(ctx context.Context, items []seedProduct) (seedResult, error) {
	results := make([]bool, len(items)) // true when inserted

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.concurrency, 1))
	for i, item := range items {
		g.Go(func() error {
			inserted, err := s.upsert(ctx, item)
			if err != nil {
				return errors.Wrapf(err, "upsert %q", item.Slug)
			}
			results[i] = inserted
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return seedResult{}, err
	}

	var res seedResult
	for _, inserted := range results {
		if inserted {
			res.inserted++
		} else {
			res.updated++
		}
	}
	return res, nil
}

func (s *seeder) upsert(ctx context.Context, item seedProduct) (inserted bool, err error) {
	p := item.toDomain()

	existing, err := s.products.FindBySlug(ctx, item.Slug)
	switch {
	case errors.Is(err, product.ErrNotFound):
		inserted = true
	case err != nil:
		return false, err
	default:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}

	saved, err := s.products.Save(ctx, p)
	if err != nil {
		return false, err
	}
	s.lg.Info("Upserted product",
		zap.Int64("id", saved.ID),
		zap.String("slug", item.Slug),
		zap.Bool("inserted", inserted),
	)
	return inserted, nil
}
