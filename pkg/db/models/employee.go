package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a staff member; PasswordHash is set only for accounts allowed
// to sign in to the admin app.
type Employee struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Position     string    `gorm:"column:position;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string   `gorm:"column:phone"`
	HireDate     time.Time `gorm:"column:hire_date;not null"`
	PasswordHash *string   `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
