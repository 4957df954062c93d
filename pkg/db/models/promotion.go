package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/enums"
)

// Promotion is a time-bounded discount that can be linked to products.
type Promotion struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	Description   *string            `gorm:"column:description"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	StartDate     time.Time          `gorm:"column:start_date;not null"`
	EndDate       time.Time          `gorm:"column:end_date;not null"`
	Active        bool               `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// PromotionProduct links a promotion to a product it applies to.
type PromotionProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID uuid.UUID `gorm:"column:promotion_id;type:uuid;not null;uniqueIndex:idx_promotion_product"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_promotion_product"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
