package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/product-catalog/internal/storefront/infra/httpx/middlewares"
	"github.com/jcmexdev/product-catalog/internal/storefront/views"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)
	r.Handle("/metrics", handler.metrics.Handler())
	r.Handle("/static/*", views.Static())

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Session)

		r.Route("/api", func(r chi.Router) {
			r.Get("/products", handler.ListProducts)
			r.Get("/products/{id}", handler.GetProduct)
			r.Get("/cart", handler.GetCart)
			r.Post("/cart/items/{id}", handler.AddCartItem)
			r.Delete("/cart", handler.ResetCart)
		})

		r.Get("/", handler.CatalogPage)
		r.Get("/products/{id}", handler.DetailPage)
		r.Post("/cart/items/{id}", handler.AddCartItemForm)
		r.Post("/cart/reset", handler.ResetCartForm)
	})
	return r
}
