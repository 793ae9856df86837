package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
	"github.com/jcmexdev/product-catalog/internal/storefront/views"
)

// CatalogPage renders the product grid. An unknown sort falls back to the
// catalog order and an unavailable catalog renders as empty.
func (h *Handler) CatalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	order, err := domain.ParseSortOrder(q.Get("sort"))
	if err != nil {
		order = domain.SortNone
	}
	filter := domain.Filter{Category: q.Get("category")}

	products := ports.ListOrEmpty(ctx, h.products, filter, order)
	categories := domain.Categories(ports.ListOrEmpty(ctx, h.products, domain.Filter{}, domain.SortNone))

	st := h.cartState(r)
	page := views.NewCatalogPage(products, categories, filter, order, st, r.URL.RequestURI())
	h.render(w, r, h.views.Catalog(w, page))
}

func (h *Handler) DetailPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	st := h.cartState(r)
	widget := views.NewWidget(st, r.URL.RequestURI())

	p, err := h.products.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.render(w, r, h.views.Message(w, http.StatusNotFound, views.MessagePage{
			Widget: widget,
			Title:  "Product not found",
			Text:   "There is no product with id " + id + ".",
		}))
		return
	case err != nil:
		slog.WarnContext(ctx, "product detail unavailable", "id", id, "error", err)
		h.render(w, r, h.views.Message(w, http.StatusServiceUnavailable, views.MessagePage{
			Widget: widget,
			Title:  "Catalog unavailable",
			Text:   "The catalog could not be loaded. Please try again.",
		}))
		return
	}

	h.render(w, r, h.views.Detail(w, views.DetailPage{
		Widget:  widget,
		Product: p,
		InCart:  cartstore.Quantity(st, p.ID),
	}))
}

// AddCartItemForm is the no-script add button: it mutates and redirects back.
func (h *Handler) AddCartItemForm(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartOrPage(w, r)
	if !ok {
		return
	}
	h.addToCart(r.Context(), cart, chi.URLParam(r, "id"))
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

func (h *Handler) ResetCartForm(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cartOrPage(w, r)
	if !ok {
		return
	}
	h.resetCart(r.Context(), cart)
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

func (h *Handler) cartOrPage(w http.ResponseWriter, r *http.Request) (Cart, bool) {
	cart, err := h.cart(r)
	if err != nil {
		h.render(w, r, h.views.Message(w, http.StatusServiceUnavailable, views.MessagePage{
			Widget: views.NewWidget(cartstore.State{}, returnTo(r)),
			Title:  "Cart unavailable",
			Text:   "Your cart could not be loaded, nothing was changed. Please try again.",
		}))
		return nil, false
	}
	return cart, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	slog.ErrorContext(r.Context(), "render failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// returnTo only accepts local absolute paths.
func returnTo(r *http.Request) string {
	to := r.FormValue("return_to")
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return "/"
	}
	return to
}
