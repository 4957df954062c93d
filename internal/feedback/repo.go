package feedback

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
)

// Repository manages persistence for customer feedback.
type Repository interface {
	Create(ctx context.Context, entry *models.Feedback) error
	List(ctx context.Context) ([]FeedbackRow, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]FeedbackRow, error)
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
	OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// FeedbackRow joins a feedback entry with the customer's name when known.
type FeedbackRow struct {
	models.Feedback
	CustomerName *string `gorm:"column:customer_name"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a feedback repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *models.Feedback) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context) ([]FeedbackRow, error) {
	var rows []FeedbackRow
	if err := r.db.WithContext(ctx).
		Table("feedback").
		Select("feedback.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = feedback.customer_id").
		Order("feedback.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByProduct returns feedback attached to orders containing the product.
func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]FeedbackRow, error) {
	var rows []FeedbackRow
	if err := r.db.WithContext(ctx).
		Table("feedback").
		Select("DISTINCT feedback.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = feedback.customer_id").
		Joins("JOIN order_items ON order_items.order_id = feedback.order_id").
		Where("order_items.product_id = ?", productID).
		Order("feedback.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
