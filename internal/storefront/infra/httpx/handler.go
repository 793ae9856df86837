package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
	"github.com/jcmexdev/product-catalog/internal/pkg/metrics"
	"github.com/jcmexdev/product-catalog/internal/storefront/infra/httpx/middlewares"
	"github.com/jcmexdev/product-catalog/internal/storefront/views"
)

// Cart is the slice of *cartstore.Persistent the handlers need.
type Cart interface {
	AddToCart(ctx context.Context, id string) error
	ResetCart(ctx context.Context) error
	GetQuantity(id string) int
	State() cartstore.State
}

// CartLookup resolves the cart owned by a session. An error means the
// saved cart could not be read; callers must not mutate in its place.
type CartLookup func(ctx context.Context, sessionID string) (Cart, error)

// SessionCarts adapts cartstore.Sessions to a CartLookup.
func SessionCarts(s *cartstore.Sessions) CartLookup {
	return func(ctx context.Context, sessionID string) (Cart, error) {
		cart, err := s.Cart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return cart, nil
	}
}

// Handler serves the product API, the cart API and the storefront pages.
type Handler struct {
	products ports.ProductRepository
	carts    CartLookup
	views    *views.Renderer
	metrics  *metrics.Metrics
}

func NewHandler(products ports.ProductRepository, carts CartLookup, v *views.Renderer, m *metrics.Metrics) *Handler {
	return &Handler{
		products: products,
		carts:    carts,
		views:    v,
		metrics:  m,
	}
}

// ListProducts returns the catalog filtered by ?category= and sorted by
// ?sort=asc|desc.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := domain.ParseSortOrder(q.Get("sort"))
	if err != nil {
		h.metrics.ProductList("bad_request")
		writeError(w, http.StatusBadRequest, "Invalid sort order", err.Error())
		return
	}

	products, err := h.products.List(r.Context(), domain.Filter{Category: q.Get("category")}, order)
	if err != nil {
		h.metrics.ProductList("unavailable")
		slog.ErrorContext(r.Context(), "failed to load products", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load products", "")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	h.metrics.ProductList("ok")
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Product not found", "")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to load product", "id", chi.URLParam(r, "id"), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load product", "")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartOrError(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart.State()))
}

// AddCartItem adds one unit of {id}. A failed durable write is logged and
// counted; the in-memory cart is still returned.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartOrError(w, r)
	if !ok {
		return
	}
	h.addToCart(r.Context(), cart, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, mapCartToResponse(cart.State()))
}

func (h *Handler) ResetCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartOrError(w, r)
	if !ok {
		return
	}
	h.resetCart(r.Context(), cart)
	writeJSON(w, http.StatusOK, mapCartToResponse(cart.State()))
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) cart(r *http.Request) (Cart, error) {
	cart, err := h.carts(r.Context(), middlewares.SessionID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "session cart unavailable", "error", err)
		return nil, err
	}
	return cart, nil
}

func (h *Handler) cartOrError(w http.ResponseWriter, r *http.Request) (Cart, bool) {
	cart, err := h.cart(r)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Cart unavailable", "")
		return nil, false
	}
	return cart, true
}

// cartState is the state pages render; an unreadable cart shows as empty.
func (h *Handler) cartState(r *http.Request) cartstore.State {
	cart, err := h.cart(r)
	if err != nil {
		return cartstore.State{Items: []cartstore.CartItem{}}
	}
	return cart.State()
}

func (h *Handler) addToCart(ctx context.Context, cart Cart, id string) {
	err := cart.AddToCart(ctx, id)
	h.metrics.CartMutation("add", err)
	if err != nil {
		slog.WarnContext(ctx, "cart add not persisted", "product_id", id, "error", err)
	}
}

func (h *Handler) resetCart(ctx context.Context, cart Cart) {
	err := cart.ResetCart(ctx)
	h.metrics.CartMutation("reset", err)
	if err != nil {
		slog.WarnContext(ctx, "cart reset not persisted", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
