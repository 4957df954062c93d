package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes order header operations. Line items are written by the
// inventory service so the stock ledger stays consistent.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Order], error)
	TransitionStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error)
}

// CreateOrderInput holds the order header payload.
type CreateOrderInput struct {
	CustomerID    *uuid.UUID
	EmployeeID    *uuid.UUID
	OrderDate     *time.Time
	Status        *enums.OrderStatus
	TotalAmount   decimal.Decimal
	PaymentMethod *string
	Notes         *string
}

// validTransitions enumerates the allowed status moves; completed and
// cancelled are terminal.
var validTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCompleted, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
}

type service struct {
	repo Repository
}

// NewService constructs an order service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.TotalAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
	}

	status := enums.OrderStatusPending
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *input.Status))
		}
		status = *input.Status
	}

	orderDate := time.Now().UTC()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	order := &models.Order{
		CustomerID:    input.CustomerID,
		EmployeeID:    input.EmployeeID,
		OrderDate:     orderDate,
		Status:        status,
		TotalAmount:   input.TotalAmount,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Order], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Order]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	}), nil
}

func (s *service) TransitionStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", next))
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status == next {
		return order, nil
	}

	allowed := false
	for _, candidate := range validTransitions[order.Status] {
		if candidate == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
	}

	order.Status = next
	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.repo.ListItems(ctx, orderID)
}
