// Package handler exposes the product catalog over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vzdolci/catalog/internal/domain/product"
)

// ProductService is the read side of the catalog used by the handlers.
type ProductService interface {
	GetAll(ctx context.Context) ([]product.Product, error)
	GetAllActive(ctx context.Context) ([]product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	GetBySlug(ctx context.Context, slug string) (*product.Product, error)
}

var _ ProductService = (*product.Service)(nil)

// Handler serves the product endpoints.
type Handler struct {
	products ProductService
}

// NewHandler constructs a Handler backed by the given service.
func NewHandler(products ProductService) *Handler {
	return &Handler{products: products}
}

// Routes registers the versioned API on r. Unknown routes and methods get
// the same JSON error body as the API itself.
func (h *Handler) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/products", func(pr chi.Router) {
			pr.Get("/", h.ListProducts)
			pr.Get("/{id}", h.GetProduct)
			pr.Get("/slug/{slug}", h.GetProductBySlug)
		})
	})
}

// Router returns a standalone chi router with the API mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}
