package httpapi

import (
	"net/http"

	"campuseats-be/internal/auth"
	"campuseats-be/internal/cart"
	"campuseats-be/internal/catalog"
	"campuseats-be/internal/earnings"
	"campuseats-be/internal/middleware"
	"campuseats-be/internal/notification"
	"campuseats-be/internal/order"
	"campuseats-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server holds the handler dependencies and builds the router.
type Server struct {
	users     user.Service
	carts     cart.Service
	catalog   catalog.Service
	orders    order.Service
	earnings  earnings.Service
	hub       *notification.Hub
	jwtSecret string
}

func NewServer(
	users user.Service,
	carts cart.Service,
	catalogSvc catalog.Service,
	orders order.Service,
	earningsSvc earnings.Service,
	hub *notification.Hub,
	jwtSecret string,
) *Server {
	return &Server{
		users:     users,
		carts:     carts,
		catalog:   catalogSvc,
		orders:    orders,
		earnings:  earningsSvc,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(s.jwtSecret))
	r.Use(middleware.Logging)
	r.Use(middleware.NewRateLimiter().Middleware)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Get("/catalog", s.handleListCatalog)
	r.Get("/catalog/{itemID}", s.handleGetCatalogItem)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Post("/catalog", s.handleCreateCatalogItem)
		r.Put("/catalog/{itemID}", s.handleUpdateCatalogItem)
		r.Get("/admin/revenue", s.handleRevenueSummary)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/carts/{cartID}", s.handleGetCart)
		r.Post("/carts/{cartID}/items", s.handleAddCartItem)
		r.Post("/carts/{cartID}/items/{sku}/remove-one", s.handleRemoveOne)
		r.Delete("/carts/{cartID}/items/{sku}", s.handleRemoveCompletely)
		r.Delete("/carts/{cartID}", s.handleClearCart)

		r.Post("/carts/{cartID}/checkout", s.handleCheckout)

		r.Get("/orders", s.handleListMyOrders)
		r.Get("/orders/{orderID}", s.handleGetOrder)
		r.Post("/orders/{orderID}/cancel", s.handleCancelOrder)
		r.Post("/orders/{orderID}/tip", s.handleSetTip)

		r.Get("/ws", s.handleWebsocket)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(auth.RoleCourier))

		r.Get("/courier/board", s.handleOpenOrders)
		r.Get("/courier/orders", s.handleCourierOrders)
		r.Get("/courier/earnings", s.handleCourierEarnings)
		r.Post("/orders/{orderID}/advance", s.handleAdvanceOrder)
	})

	return r
}
