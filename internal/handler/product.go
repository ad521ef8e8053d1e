package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/vzdolci/catalog/internal/domain/product"
)

// ListProducts handles GET /api/v1/products. The optional activeOnly query
// parameter restricts the result to active products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("activeOnly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "activeOnly must be a boolean", err)
			return
		}
		activeOnly = b
	}

	var (
		products []product.Product
		err      error
	)
	if activeOnly {
		products, err = h.products.GetAllActive(r.Context())
	} else {
		products, err = h.products.GetAll(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, errors.Wrap(err, "list products"))
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for i := range products {
		encodeProduct(&e, &products[i])
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e.Bytes())
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "product id must be an integer", err)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeProduct(w, p)
}

// GetProductBySlug handles GET /api/v1/products/slug/{slug}.
func (h *Handler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeProduct(w, p)
}

func writeProduct(w http.ResponseWriter, p *product.Product) {
	var e jx.Encoder
	encodeProduct(&e, p)
	writeJSON(w, http.StatusOK, e.Bytes())
}

// encodeProduct writes the public representation of p. Prices are written
// straight from the decimal with two fraction digits.
func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", optString(p.Description))
		e.Field("price", func(e *jx.Encoder) {
			if !p.Price.Valid {
				e.Null()
				return
			}
			e.Num(jx.Num(p.Price.Decimal.StringFixed(2)))
		})
		e.Field("ingredients", optString(p.Ingredients))
		e.Field("story", optString(p.Story))
		e.Field("emoji", optString(p.Emoji))
	})
}

func optString(s *string) func(e *jx.Encoder) {
	return func(e *jx.Encoder) {
		if s == nil {
			e.Null()
			return
		}
		e.Str(*s)
	}
}
