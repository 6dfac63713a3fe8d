package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Users   *UserHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Address *AddressHandler
	Orders  *OrderHandler
	Admin   *AdminHandler
}

func NewRouter(h Handlers) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	h.Users.RegisterRoutes(router)
	h.Catalog.RegisterRoutes(router)
	h.Cart.RegisterRoutes(router)
	h.Address.RegisterRoutes(router)
	h.Orders.RegisterRoutes(router)

	router.Route("/admin", func(r chi.Router) {
		h.Admin.RegisterRoutes(r)
		h.Catalog.RegisterAdminRoutes(r)
	})

	return router
}
