package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/internal/inventory"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes product catalog management. Stock is writable only at
// creation time; afterwards every change goes through the inventory ledger.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Product], error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	SKU           string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
	Status        *enums.ProductStatus
}

// UpdateProductInput holds optional mutation values. StockQuantity is absent
// on purpose: stock changes only via ledger movements.
type UpdateProductInput struct {
	Name     *string
	SKU      *string
	Category *string
	Price    *decimal.Decimal
	Status   *enums.ProductStatus
}

type service struct {
	repo      Repository
	dbClient  *db.Client
	inventory inventory.Service
}

// NewService constructs a product service instance.
func NewService(repo Repository, dbClient *db.Client, inventorySvc inventory.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &service{repo: repo, dbClient: dbClient, inventory: inventorySvc}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}

	status := enums.ProductStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
		}
		status = *input.Status
	}

	category, err := s.repo.ResolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:   strings.TrimSpace(input.Name),
		SKU:    strings.TrimSpace(input.SKU),
		Price:  input.Price,
		Status: status,
	}
	if category != nil {
		product.CategoryID = &category.ID
		product.Category = category
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
		}
		return nil, err
	}

	// opening stock enters through the ledger so the invariant holds from row one
	if input.StockQuantity > 0 {
		note := "opening stock"
		if _, err := s.inventory.RecordMovement(ctx, inventory.RecordMovementInput{
			ProductID: product.ID,
			Kind:      enums.MovementKindPurchase,
			Quantity:  input.StockQuantity,
			Note:      &note,
		}); err != nil {
			return nil, err
		}
		product.StockQuantity = input.StockQuantity
	}

	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.SKU != nil {
		if strings.TrimSpace(*input.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
		}
		product.Status = *input.Status
	}
	if input.Category != nil {
		category, err := s.repo.ResolveCategory(ctx, *input.Category)
		if err != nil {
			return nil, err
		}
		if category == nil {
			product.CategoryID = nil
			product.Category = nil
		} else {
			product.CategoryID = &category.ID
			product.Category = category
		}
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has ledger or order history").
			WithDetails(map[string]any{"references": refs})
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Product], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), nil
}
