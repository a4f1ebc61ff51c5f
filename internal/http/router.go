package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lfmartins/stock-manager/internal/http/handlers"
	mw "github.com/lfmartins/stock-manager/internal/http/middleware"
)

// NewRouter wires the full HTTP API. All routes under /api except
// register/login require a bearer token.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)

	r.Get("/", handlers.WelcomeHandler)
	r.Get("/health", handlers.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimit).Post("/register", handlers.RegisterHandler)
			r.With(mw.RateLimit).Post("/login", handlers.LoginHandler)
			r.With(mw.Auth).Get("/profile", handlers.ProfileHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", handlers.GetProductsHandler)
				r.Post("/", handlers.CreateProductHandler)
				r.Get("/status/low-stock", handlers.LowStockProductsHandler)
				r.Get("/status/expiring-soon", handlers.ExpiringProductsHandler)
				r.Get("/{id}", handlers.GetProductByIDHandler)
				r.Put("/{id}", handlers.UpdateProductHandler)
				r.Delete("/{id}", handlers.DeleteProductHandler)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", handlers.GetSalesHandler)
				r.Post("/", handlers.CreateSaleHandler)
				r.Get("/summary", handlers.SalesSummaryHandler)
				r.Get("/product/{productId}", handlers.GetSalesByProductHandler)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handlers.GetNotificationsHandler)
				r.Get("/unread-count", handlers.UnreadCountHandler)
				r.Patch("/read-all", handlers.MarkAllNotificationsReadHandler)
				r.Patch("/{id}/read", handlers.MarkNotificationReadHandler)
				r.Delete("/{id}", handlers.DeleteNotificationHandler)
			})
		})
	})

	return r
}
