package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyProgram defines how purchases convert into points.
type LoyaltyProgram struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	PointsPerUnit decimal.Decimal `gorm:"column:points_per_unit;type:numeric(10,2);not null"`
	Active        bool            `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LoyaltyPointTransaction records points earned or redeemed by a customer.
// Like the inventory ledger it is append-only.
type LoyaltyPointTransaction struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null"`
	OrderID    *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Points     int        `gorm:"column:points;not null"`
	Reason     string     `gorm:"column:reason;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
