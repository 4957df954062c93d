package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a customer rating, optionally tied to an order.
type Feedback struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	OrderID    *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Rating     int        `gorm:"column:rating;not null"`
	Comment    *string    `gorm:"column:comment"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Feedback) TableName() string { return "feedback" }
