package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartgrocer/grocer-backend/api/controllers"
	"github.com/smartgrocer/grocer-backend/api/middleware"
	authsvc "github.com/smartgrocer/grocer-backend/internal/auth"
	customersvc "github.com/smartgrocer/grocer-backend/internal/customers"
	deliverysvc "github.com/smartgrocer/grocer-backend/internal/delivery"
	employeesvc "github.com/smartgrocer/grocer-backend/internal/employees"
	feedbacksvc "github.com/smartgrocer/grocer-backend/internal/feedback"
	inventorysvc "github.com/smartgrocer/grocer-backend/internal/inventory"
	locationsvc "github.com/smartgrocer/grocer-backend/internal/locations"
	loyaltysvc "github.com/smartgrocer/grocer-backend/internal/loyalty"
	ordersvc "github.com/smartgrocer/grocer-backend/internal/orders"
	productsvc "github.com/smartgrocer/grocer-backend/internal/products"
	promotionsvc "github.com/smartgrocer/grocer-backend/internal/promotions"
	reportsvc "github.com/smartgrocer/grocer-backend/internal/reports"
	suppliersvc "github.com/smartgrocer/grocer-backend/internal/suppliers"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
	"github.com/smartgrocer/grocer-backend/pkg/metrics"
	"github.com/smartgrocer/grocer-backend/pkg/redis"
)

// Services bundles the domain services the router wires up.
type Services struct {
	Auth      authsvc.Service
	Products  productsvc.Service
	Customers customersvc.Service
	Orders    ordersvc.Service
	Inventory inventorysvc.Service
	Suppliers suppliersvc.Service
	Employees employeesvc.Service
	Promos    promotionsvc.Service
	Locations locationsvc.Service
	Delivery  deliverysvc.Service
	Loyalty   loyaltysvc.Service
	Feedback  feedbacksvc.Service
	Reports   reportsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(services.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, redisClient, logg)).Post("/logout", controllers.AuthLogout(services.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, redisClient, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(services.Products, logg))
			r.Post("/", controllers.ProductCreate(services.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(services.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(services.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(services.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(services.Customers, logg))
			r.Post("/", controllers.CustomerCreate(services.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(services.Customers, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(services.Customers, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(services.Customers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(services.Orders, logg))
			r.Post("/", controllers.OrderCreate(services.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(services.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderTransitionStatus(services.Orders, logg))
			r.Get("/{orderId}/items", controllers.OrderItems(services.Orders, logg))
		})

		r.Post("/order-items", controllers.OrderItemCreate(services.Inventory, logg))

		r.Route("/inventory/transactions", func(r chi.Router) {
			r.Get("/", controllers.InventoryListMovements(services.Inventory, logg))
			r.Post("/", controllers.InventoryRecordMovement(services.Inventory, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(services.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(services.Suppliers, logg))
			r.Get("/{supplierId}", controllers.SupplierDetail(services.Suppliers, logg))
			r.Put("/{supplierId}", controllers.SupplierUpdate(services.Suppliers, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(services.Suppliers, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.EmployeeList(services.Employees, logg))
			r.Post("/", controllers.EmployeeCreate(services.Employees, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", controllers.PromotionList(services.Promos, logg))
			r.Post("/", controllers.PromotionCreate(services.Promos, logg))
			r.Get("/{promotionId}", controllers.PromotionDetail(services.Promos, logg))
			r.Get("/{promotionId}/products", controllers.PromotionProducts(services.Promos, logg))
			r.Post("/{promotionId}/products", controllers.PromotionLinkProduct(services.Promos, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationList(services.Locations, logg))
			r.Post("/", controllers.LocationCreate(services.Locations, logg))
			r.Get("/{locationId}", controllers.LocationDetail(services.Locations, logg))
			r.Get("/{locationId}/inventory", controllers.LocationInventory(services.Locations, logg))
			r.Put("/{locationId}/inventory", controllers.LocationSetInventory(services.Locations, logg))
		})

		r.Route("/delivery", func(r chi.Router) {
			r.Get("/zones", controllers.DeliveryZoneList(services.Delivery, logg))
			r.Post("/zones", controllers.DeliveryZoneCreate(services.Delivery, logg))
			r.Get("/vehicles", controllers.DeliveryVehicleList(services.Delivery, logg))
			r.Post("/vehicles", controllers.DeliveryVehicleCreate(services.Delivery, logg))
			r.Get("/assignments", controllers.DeliveryAssignmentList(services.Delivery, logg))
			r.Post("/assignments", controllers.DeliveryAssignmentCreate(services.Delivery, logg))
			r.Patch("/assignments/{assignmentId}/status", controllers.DeliveryAssignmentStatus(services.Delivery, logg))
		})

		r.Route("/loyalty", func(r chi.Router) {
			r.Get("/programs", controllers.LoyaltyProgramList(services.Loyalty, logg))
			r.Post("/programs", controllers.LoyaltyProgramCreate(services.Loyalty, logg))
			r.Get("/customers/{customerId}/points", controllers.LoyaltyCustomerPoints(services.Loyalty, logg))
			r.Post("/customers/{customerId}/points", controllers.LoyaltyRecordPoints(services.Loyalty, logg))
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", controllers.FeedbackList(services.Feedback, logg))
			r.Post("/", controllers.FeedbackCreate(services.Feedback, logg))
			r.Get("/products/{productId}", controllers.FeedbackByProduct(services.Feedback, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales-summary", controllers.ReportSalesSummary(services.Reports, logg))
			r.Get("/inventory-summary", controllers.ReportInventorySummary(services.Reports, logg))
			r.Get("/financial-summary", controllers.ReportFinancialSummary(services.Reports, logg))
			r.Get("/employee-summary", controllers.ReportEmployeeSummary(services.Reports, logg))
			r.Get("/customer-summary", controllers.ReportCustomerSummary(services.Reports, logg))
		})
	})

	return r
}
