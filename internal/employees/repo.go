package employees

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Repository manages persistence for employees.
type Repository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context, page pagination.Params) ([]models.Employee, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an employee repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *repository) List(ctx context.Context, page pagination.Params) ([]models.Employee, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Employee
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
