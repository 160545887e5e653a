package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dermawan/storefront/internal/catalog"
	"github.com/dermawan/storefront/internal/errs"
	"github.com/dermawan/storefront/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses in
// one place, so no page re-implements permission logic.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsValidation(err), errors.Is(err, errs.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errs.IsUnauthorized(err), errs.IsSelfAction(err):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrStale):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Trusted auth context headers. The engine authorizes but never
// authenticates; whatever sits in front of this API vouches for these.
const (
	headerRole      = "X-Role"
	headerUserID    = "X-User-Id"
	headerSessionID = "X-Session-Id"
)

func actor(r *http.Request) (orders.Role, string) {
	role := orders.Role(r.Header.Get(headerRole))
	if role == "" {
		role = orders.RoleCustomer
	}
	return role, r.Header.Get(headerUserID)
}
