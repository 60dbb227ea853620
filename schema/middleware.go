package schema

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParseFunc runs a schema against raw input, yielding a typed result or
// the full list of field failures.
type ParseFunc[T any] func(Values) (T, Errors)

// ErrorHandler renders validation failures. The form path renders an
// error view, the API paths answer with a 400 JSON payload.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, errs Errors)

type ctxKey[T any] struct{}

// Validated returns the value a validation middleware attached for T.
func Validated[T any](r *http.Request) T {
	v, _ := r.Context().Value(ctxKey[T]{}).(T)
	return v
}

// Body validates the request body (JSON or form-encoded) against parse.
func Body[T any](parse ParseFunc[T], onError ErrorHandler) func(http.Handler) http.Handler {
	return validate(parse, onError, bodyValues)
}

// Query validates the query string against parse.
func Query[T any](parse ParseFunc[T], onError ErrorHandler) func(http.Handler) http.Handler {
	return validate(parse, onError, func(r *http.Request) (Values, error) {
		return FromQuery(r.URL.Query()), nil
	})
}

// Params validates chi route parameters against parse.
func Params[T any](parse ParseFunc[T], onError ErrorHandler) func(http.Handler) http.Handler {
	return validate(parse, onError, func(r *http.Request) (Values, error) {
		vals := Values{}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if key != "*" {
					vals[key] = rctx.URLParams.Values[i]
				}
			}
		}
		return vals, nil
	})
}

func validate[T any](parse ParseFunc[T], onError ErrorHandler, extract func(*http.Request) (Values, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vals, err := extract(r)
			if err != nil {
				onError(w, r, Errors{{Field: "body", Message: "Malformed request body"}})
				return
			}

			parsed, errs := parse(vals)
			if len(errs) > 0 {
				onError(w, r, errs)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey[T]{}, parsed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bodyValues(r *http.Request) (Values, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return FromJSON(r.Body)
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return FromQuery(r.PostForm), nil
}
