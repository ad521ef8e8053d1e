package product

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vzdolci/catalog/internal/domain/product"

// Service implements the read-only catalog operations on top of a Repository.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	products Repository
	tracer   trace.Tracer
}

// NewService creates a Service backed by the given repository.
func NewService(products Repository, tp trace.TracerProvider) *Service {
	return &Service{
		products: products,
		tracer:   tp.Tracer(tracerName),
	}
}

// GetAll returns every product in storage order, active or not.
func (s *Service) GetAll(ctx context.Context) ([]Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.product.GetAll")
	defer span.End()

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.products.count", len(products)))
	return products, nil
}

// GetAllActive returns the products whose active flag is set.
func (s *Service) GetAllActive(ctx context.Context) ([]Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.product.GetAllActive")
	defer span.End()

	products, err := s.products.FindActive(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.products.count", len(products)))
	return products, nil
}

// GetByID returns the product with the given identifier. A miss is reported
// as *NotFoundError carrying id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.product.GetByID",
		trace.WithAttributes(attribute.Int64("catalog.product.id", id)),
	)
	defer span.End()

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fail(span, err)
	}
	return p, nil
}

// GetBySlug returns the product with the given slug. A miss is reported as
// *NotFoundError carrying slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.product.GetBySlug",
		trace.WithAttributes(attribute.String("catalog.product.slug", slug)),
	)
	defer span.End()

	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Slug: slug}
		}
		return nil, fail(span, err)
	}
	return p, nil
}

// fail records err on span and returns it untouched.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
