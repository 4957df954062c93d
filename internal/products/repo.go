package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Repository manages persistence for products and their categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, page pagination.Params) ([]models.Product, error)
	ResolveCategory(ctx context.Context, name string) (*models.Category, error)
	CountReferences(ctx context.Context, productID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, page pagination.Params) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Product
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ResolveCategory finds a category by name (case-insensitive), creating it on
// first use.
func (r *repository) ResolveCategory(ctx context.Context, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}

	var category models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", trimmed).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{ID: uuid.New(), Name: trimmed}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CountReferences counts ledger entries and order items pointing at the
// product. A referenced product cannot be deleted.
func (r *repository) CountReferences(ctx context.Context, productID uuid.UUID) (int64, error) {
	var ledgerCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Count(&ledgerCount).Error; err != nil {
		return 0, err
	}

	var itemCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&itemCount).Error; err != nil {
		return 0, err
	}
	return ledgerCount + itemCount, nil
}
