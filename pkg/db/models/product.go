package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/enums"
)

// Product is a sellable item. StockQuantity is a materialized cache of the
// product's ledger: it must always equal the sum of the signed deltas in
// inventory_transactions and is written exclusively by the inventory service.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	SKU           string              `gorm:"column:sku;uniqueIndex;not null"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	Status        enums.ProductStatus `gorm:"column:status;type:product_status;not null;default:active"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
