package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	Create(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Supplier], error)
}

// SupplierInput holds the supplier payload for create and update.
type SupplierInput struct {
	Name          string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
}

type service struct {
	repo Repository
}

// NewService constructs a supplier service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(input.Name),
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}

	supplier.Name = strings.TrimSpace(input.Name)
	supplier.ContactPerson = input.ContactPerson
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return supplier, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Supplier], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Supplier]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(sup models.Supplier) pagination.Cursor {
		return pagination.Cursor{CreatedAt: sup.CreatedAt, ID: sup.ID}
	}), nil
}
