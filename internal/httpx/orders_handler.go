package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/dermawan/storefront/internal/cart"
	"github.com/dermawan/storefront/internal/orders"
	"github.com/dermawan/storefront/internal/redisx"
)

const headerIdempotencyKey = "X-Idempotency-Key"

// OrdersHandler exposes checkout and the order lifecycle. Redis may be nil;
// idempotency shortcuts and the status cache are then skipped.
type OrdersHandler struct {
	Service *orders.Service
	Carts   cart.Store
	Redis   *redis.Client
}

type checkoutReq struct {
	Customer      orders.CustomerInfo `json:"customer"`
	PaymentMethod string              `json:"payment_method"`
	Notes         string              `json:"notes"`
}

type changeStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.checkout)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders/{id}/status", h.changeStatus)
	r.Get("/invoices", h.invoices)
}

// checkout freezes the session cart into an order. An idempotency key makes
// retries return the already-created order instead of minting a second one.
func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	_, userID := actor(r)
	sid := r.Header.Get(headerSessionID)
	if sid == "" {
		writeError(w, http.StatusBadRequest, "missing "+headerSessionID)
		return
	}
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path idempotency via Redis; the DB row is the truth.
	idemKey := ""
	if key := r.Header.Get(headerIdempotencyKey); key != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemCheckout, key)
		if orderID, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && orderID != "" {
			o, err := h.Service.Get(ctx, orderID, orders.RoleAdmin, "")
			if err == nil {
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
	}

	c, err := h.Carts.Get(ctx, sid)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	trace := middleware.GetReqID(r.Context())
	o, err := h.Service.Checkout(ctx, userID, req.Customer, c.Lines, req.PaymentMethod, req.Notes, trace)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	}
	h.cacheStatus(ctx, o.ID, o.Status)
	if err := h.Carts.Delete(ctx, sid); err != nil {
		slog.Warn("clear cart after checkout", "session_id", sid, "error", err)
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	role, userID := actor(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.Get(ctx, chi.URLParam(r, "id"), role, userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	role, userID := actor(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.ListFor(ctx, role, userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	role, userID := actor(r)
	var req changeStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trace := middleware.GetReqID(r.Context())
	o, err := h.Service.ChangeStatus(ctx, chi.URLParam(r, "id"), role, userID, req.Status, trace)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.cacheStatus(ctx, o.ID, o.Status)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) invoices(w http.ResponseWriter, r *http.Request) {
	role, userID := actor(r)
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Service.Invoices(ctx, role, userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, status orders.Status) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
