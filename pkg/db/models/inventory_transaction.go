package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/enums"
)

// InventoryTransaction is an append-only ledger entry recording one stock
// movement. Quantity is the unsigned magnitude; QuantityDelta carries the
// direction, computed once at creation from the movement kind. Rows are never
// updated or deleted.
type InventoryTransaction struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	Kind          enums.MovementKind `gorm:"column:kind;type:movement_kind;not null"`
	Quantity      int                `gorm:"column:quantity;not null"`
	QuantityDelta int                `gorm:"column:quantity_delta;not null"`
	ReferenceID   *uuid.UUID         `gorm:"column:reference_id;type:uuid"`
	Note          *string            `gorm:"column:note"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
