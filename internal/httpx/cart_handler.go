package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dermawan/storefront/internal/cart"
)

type CartHandler struct {
	Carts   cart.Store
	Catalog CatalogStore
}

type cartResp struct {
	cart.Cart
	Total decimal.Decimal `json:"total"`
}

type addItemReq struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{id}", h.updateQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clear)
}

// session returns the caller's cart session id, minting one when the browser
// has none yet. The id is echoed back so the client can persist it.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) string {
	sid := r.Header.Get(headerSessionID)
	if sid == "" {
		sid = uuid.NewString()
	}
	w.Header().Set(headerSessionID, sid)
	return sid
}

func (h *CartHandler) respond(w http.ResponseWriter, code int, c cart.Cart) {
	writeJSON(w, code, cartResp{Cart: c, Total: cart.Total(c)})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Get(ctx, sid)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Catalog.Get(ctx, req.ItemID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	c, err := h.Carts.Get(ctx, sid)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	c, err = cart.AddItem(c, it, req.Quantity)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Carts.Put(ctx, c); err != nil {
		writeEngineError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	var req updateQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Get(ctx, sid)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	c, err = cart.UpdateQuantity(c, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Carts.Put(ctx, c); err != nil {
		writeEngineError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Get(ctx, sid)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	c = cart.RemoveItem(c, chi.URLParam(r, "id"))
	if err := h.Carts.Put(ctx, c); err != nil {
		writeEngineError(w, err)
		return
	}
	h.respond(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.Delete(ctx, sid); err != nil {
		writeEngineError(w, err)
		return
	}
	h.respond(w, http.StatusOK, cart.Cart{SessionID: sid})
}
