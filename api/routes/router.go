package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshkart-dev/freshkart-backend/api/controllers"
	"github.com/freshkart-dev/freshkart-backend/api/middleware"
	"github.com/freshkart-dev/freshkart-backend/internal/cart"
	"github.com/freshkart-dev/freshkart-backend/internal/catalog"
	"github.com/freshkart-dev/freshkart-backend/internal/orders"
	"github.com/freshkart-dev/freshkart-backend/pkg/config"
	"github.com/freshkart-dev/freshkart-backend/pkg/db"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/freshkart-dev/freshkart-backend/pkg/redis"
)

// Deps bundles everything the router needs. Keeping it a struct saves the
// call sites from a dozen positional arguments.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Catalog    catalog.Service
	Cart       cart.Service
	Orders     orders.Service
	MetricsReg *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})

	if deps.MetricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsReg, promhttp.HandlerOpts{}))
	}

	// Public catalog browsing needs no credentials.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Catalog, deps.Logger))
		r.Get("/{productId}", controllers.GetProduct(deps.Catalog, deps.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, deps.Logger))
		r.Use(middleware.Idempotency(deps.Redis, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, deps.Logger))
			r.Delete("/", controllers.ClearCart(deps.Cart, deps.Logger))
			r.Post("/items", controllers.AddCartItem(deps.Cart, deps.Logger))
			r.Put("/items/{productId}", controllers.UpdateCartItem(deps.Cart, deps.Logger))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(deps.Orders, deps.Logger))
			r.Get("/", controllers.ListMyOrders(deps.Orders, deps.Logger))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, deps.Logger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.MemberRoleAdmin.String(), deps.Logger))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(deps.Catalog, deps.Logger))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Catalog, deps.Logger))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Catalog, deps.Logger))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, deps.Logger))
				r.Patch("/{orderId}/payment-status", controllers.AdminUpdatePaymentStatus(deps.Orders, deps.Logger))
			})
		})
	})

	return r
}
