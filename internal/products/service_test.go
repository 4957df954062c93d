package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/internal/inventory"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

type stubProductsRepo struct {
	product    *models.Product
	created    *models.Product
	deleted    bool
	references int64
	categories map[string]*models.Category
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.created = product
	return nil
}

func (s *stubProductsRepo) Update(ctx context.Context, product *models.Product) error {
	s.product = product
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product != nil && s.product.ID == id {
		return s.product, nil
	}
	return nil, nil
}

func (s *stubProductsRepo) List(ctx context.Context, page pagination.Params) ([]models.Product, error) {
	if s.product == nil {
		return nil, nil
	}
	return []models.Product{*s.product}, nil
}

func (s *stubProductsRepo) ResolveCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, nil
	}
	if s.categories == nil {
		s.categories = map[string]*models.Category{}
	}
	if existing, ok := s.categories[name]; ok {
		return existing, nil
	}
	category := &models.Category{ID: uuid.New(), Name: name}
	s.categories[name] = category
	return category, nil
}

func (s *stubProductsRepo) CountReferences(ctx context.Context, productID uuid.UUID) (int64, error) {
	return s.references, nil
}

type stubInventoryService struct {
	movements []inventory.RecordMovementInput
	err       error
}

func (s *stubInventoryService) RecordMovement(ctx context.Context, input inventory.RecordMovementInput) (*models.InventoryTransaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.movements = append(s.movements, input)
	return &models.InventoryTransaction{ID: uuid.New(), ProductID: input.ProductID}, nil
}

func (s *stubInventoryService) RecordSaleForOrderLine(ctx context.Context, input inventory.RecordSaleInput) (*inventory.SaleResult, error) {
	return nil, nil
}

func (s *stubInventoryService) GetMovement(ctx context.Context, id uuid.UUID) (*models.InventoryTransaction, error) {
	return nil, nil
}

func (s *stubInventoryService) ListMovements(ctx context.Context, filter inventory.ListEntriesFilter) (pagination.Page[inventory.EntryRow], error) {
	return pagination.Page[inventory.EntryRow]{}, nil
}

func newTestService(t *testing.T, repo Repository, inv inventory.Service) Service {
	t.Helper()
	svc, err := NewService(repo, db.NewWithConn(&gorm.DB{}), inv)
	require.NoError(t, err)
	return svc
}

func TestCreateProductRecordsOpeningStock(t *testing.T) {
	repo := &stubProductsRepo{}
	inv := &stubInventoryService{}
	svc := newTestService(t, repo, inv)

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:          "Fresh Bananas",
		SKU:           "FRT-001",
		Category:      "Fruits",
		Price:         decimal.RequireFromString("2.99"),
		StockQuantity: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, product.StockQuantity)
	require.Len(t, inv.movements, 1)
	assert.Equal(t, enums.MovementKindPurchase, inv.movements[0].Kind)
	assert.Equal(t, 150, inv.movements[0].Quantity)
	assert.Equal(t, product.ID, inv.movements[0].ProductID)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, "Fruits", product.Category.Name)
}

func TestCreateProductZeroStockSkipsLedger(t *testing.T) {
	repo := &stubProductsRepo{}
	inv := &stubInventoryService{}
	svc := newTestService(t, repo, inv)

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "Red Apples",
		SKU:   "FRT-002",
		Price: decimal.RequireFromString("4.50"),
	})
	require.NoError(t, err)
	assert.Empty(t, inv.movements)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t, &stubProductsRepo{}, &stubInventoryService{})

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "Milk",
		SKU:   "DRY-001",
		Price: decimal.RequireFromString("-1"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteProductBlockedByReferences(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{
		product:    &models.Product{ID: productID},
		references: 3,
	}
	svc := newTestService(t, repo, &stubInventoryService{})

	err := svc.Delete(context.Background(), productID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.False(t, repo.deleted)
}

func TestDeleteProductWithoutHistory(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{product: &models.Product{ID: productID}}
	svc := newTestService(t, repo, &stubInventoryService{})

	require.NoError(t, svc.Delete(context.Background(), productID))
	assert.True(t, repo.deleted)
}

func TestUpdateProductCannotTouchStock(t *testing.T) {
	productID := uuid.New()
	repo := &stubProductsRepo{product: &models.Product{ID: productID, StockQuantity: 40}}
	svc := newTestService(t, repo, &stubInventoryService{})

	name := "Renamed"
	product, err := svc.Update(context.Background(), productID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", product.Name)
	assert.Equal(t, 40, product.StockQuantity, "update path must leave stock untouched")
}
