package locations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Repository manages persistence for store locations and branch stock.
type Repository interface {
	Create(ctx context.Context, location *models.StoreLocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	List(ctx context.Context, page pagination.Params) ([]models.StoreLocation, error)
	ListInventory(ctx context.Context, locationID uuid.UUID) ([]BranchStockRow, error)
	UpsertInventory(ctx context.Context, row *models.StoreInventory) error
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// BranchStockRow joins a branch stock record with its product catalog data.
type BranchStockRow struct {
	models.StoreInventory
	ProductName string `gorm:"column:product_name"`
	ProductSKU  string `gorm:"column:product_sku"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a store location repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, location *models.StoreLocation) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	var location models.StoreLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *repository) List(ctx context.Context, page pagination.Params) ([]models.StoreLocation, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.StoreLocation{})
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.StoreLocation
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListInventory(ctx context.Context, locationID uuid.UUID) ([]BranchStockRow, error) {
	var rows []BranchStockRow
	if err := r.db.WithContext(ctx).
		Table("store_inventories").
		Select("store_inventories.*, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = store_inventories.product_id").
		Where("store_inventories.location_id = ?", locationID).
		Order("products.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpsertInventory(ctx context.Context, row *models.StoreInventory) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO store_inventories (id, location_id, product_id, quantity)
		      VALUES (?, ?, ?, ?)
		      ON CONFLICT (location_id, product_id)
		      DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = CURRENT_TIMESTAMP`,
			row.ID, row.LocationID, row.ProductID, row.Quantity).Error
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
