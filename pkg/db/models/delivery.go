package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/enums"
)

// DeliveryZone is a serviced area with a flat delivery fee.
type DeliveryZone struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	DeliveryFee decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// DeliveryVehicle is a vehicle available for deliveries.
type DeliveryVehicle struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PlateNumber string    `gorm:"column:plate_number;uniqueIndex;not null"`
	VehicleType string    `gorm:"column:vehicle_type;not null"`
	CapacityKG  *int      `gorm:"column:capacity_kg"`
	Available   bool      `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// DeliveryAssignment ties an order to a zone, vehicle, and driver.
type DeliveryAssignment struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	ZoneID      *uuid.UUID           `gorm:"column:zone_id;type:uuid"`
	VehicleID   *uuid.UUID           `gorm:"column:vehicle_id;type:uuid"`
	DriverID    *uuid.UUID           `gorm:"column:driver_id;type:uuid"`
	Status      enums.DeliveryStatus `gorm:"column:status;type:delivery_status;not null;default:assigned"`
	ScheduledAt *time.Time           `gorm:"column:scheduled_at"`
	DeliveredAt *time.Time           `gorm:"column:delivered_at"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
