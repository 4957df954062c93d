package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreLocation is a physical store branch.
type StoreLocation struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Address   string     `gorm:"column:address;not null"`
	City      *string    `gorm:"column:city"`
	Phone     *string    `gorm:"column:phone"`
	ManagerID *uuid.UUID `gorm:"column:manager_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// StoreInventory is a per-location stock snapshot used for branch reporting.
// It is informational only; the authoritative count lives on Product and is
// maintained by the ledger.
type StoreInventory struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;uniqueIndex:idx_location_product"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_location_product"`
	Quantity   int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
