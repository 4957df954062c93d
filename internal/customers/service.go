package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Customer], error)
}

// CustomerInput holds the customer payload for create and update.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
}

type service struct {
	repo Repository
}

// NewService constructs a customer service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, err
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*models.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(input.Email))
	customer.Phone = input.Phone
	customer.Address = input.Address

	if err := s.repo.Update(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, err
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	orders, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if orders > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has order history").
			WithDetails(map[string]any{"orders": orders})
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Customer], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Customer]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(c models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	}), nil
}

func validateInput(input CustomerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return nil
}
