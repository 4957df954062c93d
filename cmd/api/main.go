package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/smartgrocer/grocer-backend/api/routes"
	authsvc "github.com/smartgrocer/grocer-backend/internal/auth"
	"github.com/smartgrocer/grocer-backend/internal/customers"
	"github.com/smartgrocer/grocer-backend/internal/delivery"
	"github.com/smartgrocer/grocer-backend/internal/employees"
	"github.com/smartgrocer/grocer-backend/internal/feedback"
	"github.com/smartgrocer/grocer-backend/internal/inventory"
	"github.com/smartgrocer/grocer-backend/internal/locations"
	"github.com/smartgrocer/grocer-backend/internal/loyalty"
	"github.com/smartgrocer/grocer-backend/internal/orders"
	"github.com/smartgrocer/grocer-backend/internal/products"
	"github.com/smartgrocer/grocer-backend/internal/promotions"
	"github.com/smartgrocer/grocer-backend/internal/reports"
	"github.com/smartgrocer/grocer-backend/internal/suppliers"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
	"github.com/smartgrocer/grocer-backend/pkg/metrics"
	"github.com/smartgrocer/grocer-backend/pkg/migrate"
	"github.com/smartgrocer/grocer-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	services, err := buildServices(cfg, logg, dbClient, redisClient, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, httpMetrics, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		closeErr = multierr.Append(closeErr, redisClient.Close())
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	ledgerMetrics *metrics.LedgerMetrics,
) (routes.Services, error) {
	conn := dbClient.DB()

	employeeRepo := employees.NewRepository(conn)

	inventorySvc, err := inventory.NewService(dbClient, inventory.NewRepository(conn), cfg.Inventory, ledgerMetrics, logg)
	if err != nil {
		return routes.Services{}, err
	}
	productSvc, err := products.NewService(products.NewRepository(conn), dbClient, inventorySvc)
	if err != nil {
		return routes.Services{}, err
	}
	customerSvc, err := customers.NewService(customers.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	orderSvc, err := orders.NewService(orders.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	supplierSvc, err := suppliers.NewService(suppliers.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	employeeSvc, err := employees.NewService(employeeRepo, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	promoSvc, err := promotions.NewService(promotions.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	locationSvc, err := locations.NewService(locations.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	deliverySvc, err := delivery.NewService(delivery.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	loyaltySvc, err := loyalty.NewService(loyalty.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	feedbackSvc, err := feedback.NewService(feedback.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	reportSvc, err := reports.NewService(reports.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := authsvc.NewService(employeeRepo, redisClient, redisClient, cfg.JWT, cfg.RateLimit, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:      authService,
		Products:  productSvc,
		Customers: customerSvc,
		Orders:    orderSvc,
		Inventory: inventorySvc,
		Suppliers: supplierSvc,
		Employees: employeeSvc,
		Promos:    promoSvc,
		Locations: locationSvc,
		Delivery:  deliverySvc,
		Loyalty:   loyaltySvc,
		Feedback:  feedbackSvc,
		Reports:   reportSvc,
	}, nil
}
