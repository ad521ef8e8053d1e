package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/vzdolci/catalog/internal/domain/product"
)

const internalErrorMessage = "internal server error"

// writeServiceError maps a service error onto a status code. Not-found
// becomes 404; everything else is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *product.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, r, http.StatusNotFound, nf.Error(), nil)
	case errors.Is(err, product.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "product not found", nil)
	default:
		zctx.From(r.Context()).Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, internalErrorMessage, nil)
	}
}

// writeError writes {"code","message"}. cause, when set, is logged at debug.
func writeError(w http.ResponseWriter, r *http.Request, code int, message string, cause error) {
	if cause != nil {
		zctx.From(r.Context()).Debug("Bad request",
			zap.String("path", r.URL.Path),
			zap.Error(cause),
		)
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, code, e.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
