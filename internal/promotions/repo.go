package promotions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Repository manages persistence for promotions and their product links.
type Repository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context, page pagination.Params) ([]models.Promotion, error)
	LinkProduct(ctx context.Context, link *models.PromotionProduct) error
	ListLinkedProducts(ctx context.Context, promotionID uuid.UUID) ([]LinkedProductRow, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// LinkedProductRow joins a linked product with its catalog data.
type LinkedProductRow struct {
	models.PromotionProduct
	ProductName string `gorm:"column:product_name"`
	ProductSKU  string `gorm:"column:product_sku"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a promotion repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, promotion *models.Promotion) error {
	if promotion.ID == uuid.Nil {
		promotion.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) List(ctx context.Context, page pagination.Params) ([]models.Promotion, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var items []models.Promotion
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) LinkProduct(ctx context.Context, link *models.PromotionProduct) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) ListLinkedProducts(ctx context.Context, promotionID uuid.UUID) ([]LinkedProductRow, error) {
	var rows []LinkedProductRow
	if err := r.db.WithContext(ctx).
		Table("promotion_products").
		Select("promotion_products.*, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = promotion_products.product_id").
		Where("promotion_products.promotion_id = ?", promotionID).
		Order("promotion_products.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
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
