package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/enums"
)

// Order is a checkout header. Line items are appended through the inventory
// service and are immutable once created.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	Customer      *Customer         `gorm:"foreignKey:CustomerID"`
	EmployeeID    *uuid.UUID        `gorm:"column:employee_id;type:uuid"`
	OrderDate     time.Time         `gorm:"column:order_date;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:pending"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentMethod *string           `gorm:"column:payment_method"`
	Notes         *string           `gorm:"column:notes"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
