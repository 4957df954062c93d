package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Repository manages persistence for order headers and line-item reads.
// Line-item writes belong to the inventory service.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, page pagination.Params) ([]models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error)
}

// OrderItemRow joins a line item with its product name and SKU for listings.
type OrderItemRow struct {
	models.OrderItem
	ProductName string `gorm:"column:product_name"`
	ProductSKU  string `gorm:"column:product_sku"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", order.Status).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, page pagination.Params) ([]models.Order, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Customer")
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Order
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error) {
	var rows []OrderItemRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
