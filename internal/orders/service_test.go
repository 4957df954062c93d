package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order         *models.Order
	created       *models.Order
	updatedStatus enums.OrderStatus
	items         []OrderItemRow
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, order *models.Order) error {
	s.updatedStatus = order.Status
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, page pagination.Params) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrdersRepo) ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error) {
	return s.items, nil
}

func TestCreateOrderDefaultsStatus(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		TotalAmount: decimal.RequireFromString("42.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.IsZero())
	assert.NotNil(t, repo.created)
}

func TestCreateOrderRejectsNegativeTotal(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		TotalAmount: decimal.RequireFromString("-1"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestTransitionStatus(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusPending}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, order.Status)
	assert.Equal(t, enums.OrderStatusProcessing, repo.updatedStatus)
}

func TestTransitionStatusFromTerminal(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusCancelled}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusProcessing)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestTransitionStatusSameStatusIsNoop(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{order: &models.Order{ID: orderID, Status: enums.OrderStatusPending}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	order, err := svc.TransitionStatus(context.Background(), orderID, enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Empty(t, repo.updatedStatus, "no write expected for a no-op transition")
}

func TestTransitionStatusNotFound(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(context.Background(), uuid.New(), enums.OrderStatusCompleted)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListItemsRequiresOrder(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{})
	require.NoError(t, err)

	_, err = svc.ListItems(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
