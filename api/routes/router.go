package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/construplaza/construplaza-backend/api/controllers"
	"github.com/construplaza/construplaza-backend/api/middleware"
	"github.com/construplaza/construplaza-backend/internal/audit"
	authsvc "github.com/construplaza/construplaza-backend/internal/auth"
	category "github.com/construplaza/construplaza-backend/internal/categories"
	"github.com/construplaza/construplaza-backend/internal/checkout"
	customer "github.com/construplaza/construplaza-backend/internal/customers"
	product "github.com/construplaza/construplaza-backend/internal/products"
	"github.com/construplaza/construplaza-backend/internal/reports"
	"github.com/construplaza/construplaza-backend/internal/sales"
	"github.com/construplaza/construplaza-backend/internal/users"
	"github.com/construplaza/construplaza-backend/pkg/auth/session"
	"github.com/construplaza/construplaza-backend/pkg/config"
	"github.com/construplaza/construplaza-backend/pkg/db"
	"github.com/construplaza/construplaza-backend/pkg/enums"
	"github.com/construplaza/construplaza-backend/pkg/logger"
	"github.com/construplaza/construplaza-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth       authsvc.Service
	Products   product.Service
	Categories category.Service
	Customers  customer.Service
	Checkout   checkout.Service
	Sales      sales.Service
	Users      users.Service
	Audit      audit.Service
	Reports    reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(dbClient, redisClient)))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleVendedor)))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/search", controllers.SearchProducts(svcs.Products, logg))
			r.Get("/low-stock", controllers.LowStockProducts(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
		})

		r.Get("/categories", controllers.ListCategories(svcs.Categories, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/document/{documentNumber}", controllers.GetCustomerByDocument(svcs.Customers, logg))
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Put("/{customerId}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.Delete("/{customerId}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/pos", func(r chi.Router) {
			r.Get("/cart", controllers.POSGetCart(svcs.Checkout, logg))
			r.Post("/cart/items", controllers.POSAddItem(svcs.Checkout, logg))
			r.Patch("/cart/items/{productId}", controllers.POSChangeQuantity(svcs.Checkout, logg))
			r.Delete("/cart/items/{productId}", controllers.POSRemoveItem(svcs.Checkout, logg))
			r.Post("/checkout", controllers.POSCheckout(svcs.Checkout, svcs.Sales, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", controllers.RecordSale(svcs.Sales, logg))
			r.Get("/mine", controllers.MySales(svcs.Sales, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", controllers.ReportsSummary(svcs.Reports, logg))
			r.Get("/daily", controllers.ReportsDaily(svcs.Reports, logg))
			r.Get("/by-category", controllers.ReportsByCategory(svcs.Reports, logg))
			r.Get("/top-products", controllers.ReportsTopProducts(svcs.Reports, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(svcs.Categories, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Delete("/{userId}", controllers.DeactivateUser(svcs.Users, logg))
		})

		r.Get("/audit", controllers.ListAuditEntries(svcs.Audit, logg))
	})

	return r
}

func readinessDeps(dbClient db.Pinger, redisClient *redis.Client) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if dbClient != nil {
		deps["postgres"] = dbClient
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
