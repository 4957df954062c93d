package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
	"github.com/smartgrocer/grocer-backend/pkg/security"
)

// Seeds a development database with a small set of sample rows. Safe to run
// more than once: every insert is keyed on a unique column and skipped on
// conflict.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := seed(ctx, dbClient.DB(), cfg); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

func seed(ctx context.Context, conn *gorm.DB, cfg *config.Config) error {
	conn = conn.WithContext(ctx)

	categories := []models.Category{
		{Name: "Fruits"},
		{Name: "Vegetables"},
		{Name: "Dairy"},
		{Name: "Bakery"},
		{Name: "Meat"},
	}
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	var fruits models.Category
	if err := conn.Where("name = ?", "Fruits").First(&fruits).Error; err != nil {
		return fmt.Errorf("lookup fruits category: %w", err)
	}

	products := []models.Product{
		{
			Name:          "Fresh Bananas",
			SKU:           "FRT-001",
			CategoryID:    &fruits.ID,
			Price:         decimal.RequireFromString("2.99"),
			StockQuantity: 150,
			Status:        enums.ProductStatusActive,
		},
		{
			Name:          "Red Apples",
			SKU:           "FRT-002",
			CategoryID:    &fruits.ID,
			Price:         decimal.RequireFromString("4.50"),
			StockQuantity: 80,
			Status:        enums.ProductStatusActive,
		},
	}
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	phone := "555-0101"
	customers := []models.Customer{
		{Name: "John Doe", Email: "john.doe@example.com", Phone: &phone},
		{Name: "Jane Smith", Email: "jane.smith@example.com"},
	}
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&customers).Error; err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	hash, err := security.HashPassword("changeme123", cfg.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	hireDate := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	employees := []models.Employee{
		{Name: "Pooja Malhotra", Position: "Store Manager", Email: "pooja.malhotra@example.com", HireDate: hireDate, PasswordHash: &hash},
		{Name: "Raj Kumar", Position: "Cashier", Email: "raj.kumar@example.com", HireDate: hireDate, PasswordHash: &hash},
	}
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&employees).Error; err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	return nil
}
