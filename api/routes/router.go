package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefrontlabs/storefront-backend/api/controllers"
	"github.com/storefrontlabs/storefront-backend/api/middleware"
	"github.com/storefrontlabs/storefront-backend/internal/cart"
	"github.com/storefrontlabs/storefront-backend/internal/coupons"
	"github.com/storefrontlabs/storefront-backend/internal/notifications"
	"github.com/storefrontlabs/storefront-backend/internal/products"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
	"github.com/storefrontlabs/storefront-backend/pkg/metrics"
	"github.com/storefrontlabs/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	m *metrics.StorefrontMetrics,
	productService products.Service,
	couponService coupons.Service,
	cartService cart.Service,
	notificationService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/{productID}", controllers.GetProduct(productService, logg))
		})

		// shoppers pick a coupon from the list, so reads are public
		r.Get("/coupons", controllers.ListCoupons(couponService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items/{productID}", controllers.UpdateCartItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(cartService, logg))
			r.Post("/coupon", controllers.ApplyCartCoupon(cartService, logg))
			r.Delete("/coupon", controllers.RemoveCartCoupon(cartService, logg))
			r.Post("/checkout", controllers.Checkout(cartService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.ListNotifications(notificationService, logg))
			r.Delete("/{notificationID}", controllers.DismissNotification(notificationService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(cfg, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(productService, logg))
				r.Post("/", controllers.CreateProduct(productService, logg))
				r.Get("/{productID}", controllers.GetProduct(productService, logg))
				r.Put("/{productID}", controllers.UpdateProduct(productService, logg))
				r.Delete("/{productID}", controllers.DeleteProduct(productService, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.ListCoupons(couponService, logg))
				r.Post("/", controllers.CreateCoupon(couponService, logg))
				r.Delete("/{couponID}", controllers.DeleteCoupon(couponService, logg))
			})
		})
	})

	return r
}
