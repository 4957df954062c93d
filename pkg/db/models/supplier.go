package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor the store purchases from.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	ContactPerson *string   `gorm:"column:contact_person"`
	Email         *string   `gorm:"column:email"`
	Phone         *string   `gorm:"column:phone"`
	Address       *string   `gorm:"column:address"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
