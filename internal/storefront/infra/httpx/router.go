package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcmexdev/seat-storefront/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler, jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Prometheus)

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/catalog", handler.Catalog)
	r.Get("/catalog/{category}/options", handler.CategoryOptions)
	r.Get("/products", handler.ListProducts)
	r.Get("/products/{id}", handler.GetProduct)
	r.Post("/quotes", handler.Quote)

	r.Route("/carts/{session}", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Patch("/items/{key}", handler.UpdateItem)
		r.Delete("/items/{key}", handler.RemoveItem)
		r.Post("/checkout", handler.Checkout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.RequireAdmin(jwtSecret))
		r.Post("/orders", handler.AdminCreateOrder)
		r.Get("/orders/{id}", handler.AdminGetOrder)
		r.Post("/orders/{id}/cancel", handler.AdminCancelOrder)
		r.Get("/checkouts/{attempt}", handler.AdminGetCheckout)
	})
	return r
}
