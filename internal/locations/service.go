package locations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes store location and branch stock operations.
type Service interface {
	Create(ctx context.Context, input CreateLocationInput) (*models.StoreLocation, error)
	Get(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.StoreLocation], error)
	ListInventory(ctx context.Context, locationID uuid.UUID) ([]BranchStockRow, error)
	SetInventory(ctx context.Context, input SetInventoryInput) error
}

// CreateLocationInput holds the store location payload.
type CreateLocationInput struct {
	Name      string
	Address   string
	City      *string
	Phone     *string
	ManagerID *uuid.UUID
}

// SetInventoryInput records a branch stock snapshot for one product.
type SetInventoryInput struct {
	LocationID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
}

type service struct {
	repo Repository
}

// NewService constructs a store location service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateLocationInput) (*models.StoreLocation, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	location := &models.StoreLocation{
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		City:      input.City,
		Phone:     input.Phone,
		ManagerID: input.ManagerID,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return location, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.StoreLocation], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.StoreLocation]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(l models.StoreLocation) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	}), nil
}

func (s *service) ListInventory(ctx context.Context, locationID uuid.UUID) ([]BranchStockRow, error) {
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return s.repo.ListInventory(ctx, locationID)
}

func (s *service) SetInventory(ctx context.Context, input SetInventoryInput) error {
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	location, err := s.repo.FindByID(ctx, input.LocationID)
	if err != nil {
		return err
	}
	if location == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}

	exists, err := s.repo.ProductExists(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	return s.repo.UpsertInventory(ctx, &models.StoreInventory{
		LocationID: input.LocationID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
	})
}
