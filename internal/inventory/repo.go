package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// ListEntriesFilter narrows ledger listings.
type ListEntriesFilter struct {
	ProductID *uuid.UUID
	Kind      *enums.MovementKind
	Page      pagination.Params
}

// EntryRow joins a ledger entry with its product's catalog identity.
type EntryRow struct {
	models.InventoryTransaction
	ProductName string `gorm:"column:product_name"`
	ProductSKU  string `gorm:"column:product_sku"`
}

// Repository manages persistence for the inventory ledger and the stock
// counter it materializes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// ApplyStockDelta atomically adds delta to the product's stock counter,
	// refusing to drive it negative. Returns false when no row qualified.
	ApplyStockDelta(ctx context.Context, productID uuid.UUID, delta int) (bool, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	CreateEntry(ctx context.Context, entry *models.InventoryTransaction) error
	GetEntry(ctx context.Context, id uuid.UUID) (*models.InventoryTransaction, error)
	ListEntries(ctx context.Context, filter ListEntriesFilter) ([]EntryRow, error)
	SumDeltas(ctx context.Context, productID uuid.UUID) (int64, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ApplyStockDelta(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = ? WHERE id = ? AND stock_quantity + ? >= 0`,
		delta, time.Now().UTC(), productID, delta,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
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

func (r *repository) CreateEntry(ctx context.Context, entry *models.InventoryTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) GetEntry(ctx context.Context, id uuid.UUID) (*models.InventoryTransaction, error) {
	var entry models.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListEntries(ctx context.Context, filter ListEntriesFilter) ([]EntryRow, error) {
	query := r.db.WithContext(ctx).
		Table("inventory_transactions").
		Select("inventory_transactions.*, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = inventory_transactions.product_id")
	if filter.ProductID != nil {
		query = query.Where("inventory_transactions.product_id = ?", *filter.ProductID)
	}
	if filter.Kind != nil {
		query = query.Where("inventory_transactions.kind = ?", *filter.Kind)
	}

	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(inventory_transactions.created_at < ?) OR (inventory_transactions.created_at = ? AND inventory_transactions.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var entries []EntryRow
	if err := query.
		Order("inventory_transactions.created_at DESC, inventory_transactions.id DESC").
		Limit(pagination.LimitWithBuffer(filter.Page.Limit)).
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SumDeltas(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum *int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Select("SUM(quantity_delta)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *repository) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}
