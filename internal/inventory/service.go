package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
	"github.com/smartgrocer/grocer-backend/pkg/metrics"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service is the single write path for stock. Every stock change goes through
// RecordMovement or RecordSaleForOrderLine; nothing else in the codebase may
// touch products.stock_quantity.
type Service interface {
	RecordMovement(ctx context.Context, input RecordMovementInput) (*models.InventoryTransaction, error)
	RecordSaleForOrderLine(ctx context.Context, input RecordSaleInput) (*SaleResult, error)
	GetMovement(ctx context.Context, id uuid.UUID) (*models.InventoryTransaction, error)
	ListMovements(ctx context.Context, filter ListEntriesFilter) (pagination.Page[EntryRow], error)
}

// RecordMovementInput captures one requested stock movement. Quantity must be
// positive except for adjustments, which may be signed.
type RecordMovementInput struct {
	ProductID   uuid.UUID
	Kind        enums.MovementKind
	Quantity    int
	ReferenceID *uuid.UUID
	Note        *string
}

// RecordSaleInput captures an order line plus its implied sale movement.
type RecordSaleInput struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// SaleResult returns both rows written by RecordSaleForOrderLine.
type SaleResult struct {
	Item  *models.OrderItem
	Entry *models.InventoryTransaction
}

type service struct {
	client  *db.Client
	repo    Repository
	cfg     config.InventoryConfig
	metrics *metrics.LedgerMetrics
	logg    *logger.Logger
}

// NewService wires the inventory service with its persistence and telemetry.
func NewService(client *db.Client, repo Repository, cfg config.InventoryConfig, ledgerMetrics *metrics.LedgerMetrics, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{
		client:  client,
		repo:    repo,
		cfg:     cfg,
		metrics: ledgerMetrics,
		logg:    logg,
	}, nil
}

func (s *service) RecordMovement(ctx context.Context, input RecordMovementInput) (*models.InventoryTransaction, error) {
	delta, err := movementDelta(input.Kind, input.Quantity)
	if err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var entry *models.InventoryTransaction
	err = s.runSerialized(ctx, func(repo Repository) error {
		var txErr error
		entry, txErr = applyMovement(ctx, repo, input, delta, s.metrics)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(string(input.Kind))
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"product_id": input.ProductID,
			"kind":       input.Kind,
			"delta":      delta,
		}), "stock movement recorded")
	}
	return entry, nil
}

func (s *service) RecordSaleForOrderLine(ctx context.Context, input RecordSaleInput) (*SaleResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	result := &SaleResult{}
	err := s.runSerialized(ctx, func(repo Repository) error {
		order, err := repo.GetOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status == enums.OrderStatusCompleted || order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot add line items to a %s order", order.Status))
		}

		orderID := input.OrderID
		entry, err := applyMovement(ctx, repo, RecordMovementInput{
			ProductID:   input.ProductID,
			Kind:        enums.MovementKindSale,
			Quantity:    input.Quantity,
			ReferenceID: &orderID,
		}, -input.Quantity, s.metrics)
		if err != nil {
			return err
		}

		item := &models.OrderItem{
			OrderID:   input.OrderID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
		}
		if err := repo.CreateOrderItem(ctx, item); err != nil {
			return err
		}

		result.Item = item
		result.Entry = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(string(enums.MovementKindSale))
	return result, nil
}

func (s *service) GetMovement(ctx context.Context, id uuid.UUID) (*models.InventoryTransaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement id is required")
	}
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movement not found")
	}
	return entry, nil
}

func (s *service) ListMovements(ctx context.Context, filter ListEntriesFilter) (pagination.Page[EntryRow], error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return pagination.Page[EntryRow]{},
			pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement kind %q", *filter.Kind))
	}
	entries, err := s.repo.ListEntries(ctx, filter)
	if err != nil {
		return pagination.Page[EntryRow]{}, err
	}
	return pagination.NewPage(entries, filter.Page.Limit, func(e EntryRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.ID}
	}), nil
}

// movementDelta validates the (kind, quantity) pair and returns the signed
// delta the movement applies to stock.
func movementDelta(kind enums.MovementKind, quantity int) (int, error) {
	if !kind.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement kind %q", kind))
	}
	if kind == enums.MovementKindAdjustment {
		if quantity == 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity cannot be zero")
		}
		return quantity, nil
	}
	if quantity <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if kind.Decrements() {
		return -quantity, nil
	}
	return quantity, nil
}

// applyMovement performs the guarded counter update and the ledger insert.
// Both writes share the caller's transaction so a failure rolls back both.
func applyMovement(ctx context.Context, repo Repository, input RecordMovementInput, delta int, ledgerMetrics *metrics.LedgerMetrics) (*models.InventoryTransaction, error) {
	applied, err := repo.ApplyStockDelta(ctx, input.ProductID, delta)
	if err != nil {
		return nil, err
	}
	if !applied {
		exists, err := repo.ProductExists(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		ledgerMetrics.IncInsufficientStock(string(input.Kind))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").
			WithDetails(map[string]any{"reason": "insufficient_stock"})
	}

	quantity := input.Quantity
	if quantity < 0 {
		quantity = -quantity
	}
	entry := &models.InventoryTransaction{
		ProductID:     input.ProductID,
		Kind:          input.Kind,
		Quantity:      quantity,
		QuantityDelta: delta,
		ReferenceID:   input.ReferenceID,
		Note:          input.Note,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// runSerialized executes fn in a transaction, retrying a bounded number of
// times when the database reports lock contention on the product row.
func (s *service) runSerialized(ctx context.Context, fn func(repo Repository) error) error {
	backoff := retry.WithMaxRetries(uint64(s.cfg.ConflictRetries), retry.NewConstant(s.cfg.ConflictRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
			return fn(s.repo.WithTx(tx))
		})
		if db.IsLockContention(txErr) {
			s.metrics.IncConflictRetry()
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if err != nil && db.IsLockContention(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "inventory busy, try again")
	}
	return err
}
