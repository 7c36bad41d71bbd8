package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marketa-app/admin-backend/api/controllers"
	"github.com/marketa-app/admin-backend/api/middleware"
	"github.com/marketa-app/admin-backend/internal/auth"
	"github.com/marketa-app/admin-backend/internal/categories"
	"github.com/marketa-app/admin-backend/internal/invoices"
	"github.com/marketa-app/admin-backend/internal/marketing"
	"github.com/marketa-app/admin-backend/internal/notifications"
	"github.com/marketa-app/admin-backend/internal/orders"
	"github.com/marketa-app/admin-backend/internal/products"
	"github.com/marketa-app/admin-backend/pkg/auth/session"
	"github.com/marketa-app/admin-backend/pkg/config"
	"github.com/marketa-app/admin-backend/pkg/logger"
	"github.com/marketa-app/admin-backend/pkg/metrics"
)

// Deps bundles everything the HTTP surface needs. Pinger entries feed
// the readiness probe; a nil entry is skipped.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.Checker
	Pingers  map[string]controllers.Pinger

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Shipping controllers.ShippingRater

	Auth          auth.Service
	Orders        orders.Service
	Invoices      invoices.Service
	Categories    categories.Service
	Products      products.Service
	Marketing     marketing.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, cfg.JWT, logg))
		if !cfg.App.IsProd() {
			r.Post("/signup", controllers.AuthSignup(deps.Auth, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Get("/{orderId}/invoices", controllers.OrderInvoices(deps.Invoices, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWriteAccess(logg))
				r.Put("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
				r.With(middleware.RequireRole("admin", logg)).
					Post("/{orderId}/refund", controllers.OrderRefund(deps.Orders, logg))
				r.Post("/{orderId}/recompute-status", controllers.OrderRecomputeStatus(deps.Orders, logg))
				r.Post("/{orderId}/invoices", controllers.OrderGenerateInvoice(deps.Invoices, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryTree(deps.Categories, logg))
			r.Get("/{categoryId}", controllers.CategoryDetail(deps.Categories, logg))
			r.Get("/{categoryId}/products", controllers.CategoryProducts(deps.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWriteAccess(logg))
				r.Patch("/{categoryId}", controllers.CategoryUpdate(deps.Categories, logg))
				r.Post("/reorder", controllers.CategoryReorder(deps.Categories, logg))
				r.Put("/{categoryId}/exclusion", controllers.CategorySetExcluded(deps.Categories, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.BannerList(deps.Marketing, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWriteAccess(logg))
				r.Post("/", controllers.BannerCreate(deps.Marketing, logg))
				r.Put("/{bannerId}", controllers.BannerUpdate(deps.Marketing, logg))
				r.Delete("/{bannerId}", controllers.BannerDelete(deps.Marketing, logg))
			})
		})

		r.Route("/grid-elements", func(r chi.Router) {
			r.Get("/", controllers.GridElementList(deps.Marketing, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireWriteAccess(logg))
				r.Post("/", controllers.GridElementCreate(deps.Marketing, logg))
				r.Put("/{elementId}", controllers.GridElementUpdate(deps.Marketing, logg))
				r.Delete("/{elementId}", controllers.GridElementDelete(deps.Marketing, logg))
			})
		})

		r.Route("/flash-sales", func(r chi.Router) {
			r.Get("/", controllers.FlashSaleList(deps.Marketing, logg))
			r.Get("/{saleId}/products", controllers.FlashSaleProducts(deps.Marketing, logg))
		})

		r.Post("/shipping/estimate", controllers.ShippingEstimate(deps.Shipping, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(deps.Notifications, logg))
			r.With(middleware.RequireWriteAccess(logg)).
				Post("/", controllers.NotificationCreate(deps.Notifications, logg))
		})
	})

	return r
}
