package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dermawan/storefront/internal/catalog"
)

// CatalogStore is what the catalog handler needs from persistence.
type CatalogStore interface {
	Create(ctx context.Context, it *catalog.Item) error
	Update(ctx context.Context, it *catalog.Item) error
	Get(ctx context.Context, id string) (*catalog.Item, error)
	List(ctx context.Context) ([]catalog.Item, error)
}

type CatalogHandler struct {
	Store CatalogStore
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Store.List(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if items == nil {
		items = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	role, _ := actor(r)
	if !role.Staff() {
		writeError(w, http.StatusForbidden, "staff only")
		return
	}
	var it catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Create(ctx, &it); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	role, _ := actor(r)
	if !role.Staff() {
		writeError(w, http.StatusForbidden, "staff only")
		return
	}
	var it catalog.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	it.ID = chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Update(ctx, &it); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
