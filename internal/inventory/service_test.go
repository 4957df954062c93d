package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// one pooled connection keeps writers strictly serialized, matching the
	// per-product row lock the postgres schema provides
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  category_id TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT,
  employee_id TEXT,
  order_date DATETIME,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  payment_method TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_transactions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  quantity_delta INTEGER NOT NULL,
  reference_id TEXT,
  note TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		db.NewWithConn(conn),
		NewRepository(conn),
		config.InventoryConfig{ConflictRetries: 10, ConflictRetryBackoff: 5 * time.Millisecond},
		nil,
		nil,
	)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, stock int) uuid.UUID {
	t.Helper()

	product := models.Product{
		ID:            uuid.New(),
		Name:          "Fresh Bananas",
		SKU:           "FRT-" + uuid.NewString()[:8],
		Price:         decimal.NewFromFloat(1.99),
		StockQuantity: stock,
		Status:        enums.ProductStatusActive,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product.ID
}

func seedOrder(t *testing.T, conn *gorm.DB, status enums.OrderStatus) uuid.UUID {
	t.Helper()

	order := models.Order{
		ID:          uuid.New(),
		OrderDate:   time.Now().UTC(),
		Status:      status,
		TotalAmount: decimal.Zero,
	}
	require.NoError(t, conn.Create(&order).Error)
	return order.ID
}

func loadStock(t *testing.T, conn *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", productID).Error)
	return product.StockQuantity
}

func countEntries(t *testing.T, conn *gorm.DB, productID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, conn.Model(&models.InventoryTransaction{}).
		Where("product_id = ?", productID).Count(&count).Error)
	return count
}

func TestRecordMovementSale(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 10)

	entry, err := svc.RecordMovement(ctx, RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindSale,
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MovementKindSale, entry.Kind)
	assert.Equal(t, 3, entry.Quantity)
	assert.Equal(t, -3, entry.QuantityDelta)

	assert.Equal(t, 7, loadStock(t, conn, productID))
	assert.EqualValues(t, 1, countEntries(t, conn, productID))
}

func TestRecordMovementInsufficientStock(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 5)

	_, err := svc.RecordMovement(ctx, RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindSale,
		Quantity:  10,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "insufficient_stock", details["reason"])

	assert.Equal(t, 5, loadStock(t, conn, productID))
	assert.EqualValues(t, 0, countEntries(t, conn, productID))
}

func TestConcurrentSalesNoOversell(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordMovement(ctx, RecordMovementInput{
				ProductID: productID,
				Kind:      enums.MovementKindSale,
				Quantity:  6,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "unexpected error type: %v", err)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent sale must win")
	assert.Equal(t, 4, loadStock(t, conn, productID))
	assert.EqualValues(t, 1, countEntries(t, conn, productID))
}

func TestRecordMovementPurchase(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 5)

	entry, err := svc.RecordMovement(ctx, RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindPurchase,
		Quantity:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, entry.QuantityDelta)
	assert.Equal(t, 25, loadStock(t, conn, productID))
}

func TestRecordSaleForOrderLine(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 2)
	orderID := seedOrder(t, conn, enums.OrderStatusPending)

	result, err := svc.RecordSaleForOrderLine(ctx, RecordSaleInput{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Item)
	require.NotNil(t, result.Entry)
	assert.Equal(t, orderID, result.Item.OrderID)
	assert.Equal(t, enums.MovementKindSale, result.Entry.Kind)
	require.NotNil(t, result.Entry.ReferenceID)
	assert.Equal(t, orderID, *result.Entry.ReferenceID)
	assert.Equal(t, 0, loadStock(t, conn, productID))

	_, err = svc.RecordSaleForOrderLine(ctx, RecordSaleInput{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("9.99"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&items).Error)
	assert.EqualValues(t, 1, items, "failed sale must not leave a line item")
}

func TestRecordSaleForOrderLineOrderNotFound(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn, 5)

	_, err := svc.RecordSaleForOrderLine(context.Background(), RecordSaleInput{
		OrderID:   uuid.New(),
		ProductID: productID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, 5, loadStock(t, conn, productID))
}

func TestRecordSaleForOrderLineCompletedOrder(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	productID := seedProduct(t, conn, 5)
	orderID := seedOrder(t, conn, enums.OrderStatusCompleted)

	_, err := svc.RecordSaleForOrderLine(context.Background(), RecordSaleInput{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 5, loadStock(t, conn, productID))
}

func TestRecordMovementUnknownProduct(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.RecordMovement(context.Background(), RecordMovementInput{
		ProductID: uuid.New(),
		Kind:      enums.MovementKindPurchase,
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestNegativeAdjustmentIsStockChecked(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 3)

	_, err := svc.RecordMovement(ctx, RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindAdjustment,
		Quantity:  -5,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, 3, loadStock(t, conn, productID))

	entry, err := svc.RecordMovement(ctx, RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindAdjustment,
		Quantity:  -2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)
	assert.Equal(t, -2, entry.QuantityDelta)
	assert.Equal(t, 1, loadStock(t, conn, productID))
}

func TestMovementValidation(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 3)

	cases := []RecordMovementInput{
		{ProductID: productID, Kind: "shrinkage", Quantity: 1},
		{ProductID: productID, Kind: enums.MovementKindSale, Quantity: 0},
		{ProductID: productID, Kind: enums.MovementKindPurchase, Quantity: -4},
		{ProductID: productID, Kind: enums.MovementKindAdjustment, Quantity: 0},
		{ProductID: uuid.Nil, Kind: enums.MovementKindSale, Quantity: 1},
	}
	for _, input := range cases {
		_, err := svc.RecordMovement(ctx, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %+v should fail validation", input)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
	assert.EqualValues(t, 0, countEntries(t, conn, productID))
}

func TestStockMatchesLedgerSum(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	repo := NewRepository(conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 0)

	moves := []RecordMovementInput{
		{ProductID: productID, Kind: enums.MovementKindPurchase, Quantity: 50},
		{ProductID: productID, Kind: enums.MovementKindSale, Quantity: 12},
		{ProductID: productID, Kind: enums.MovementKindReturn, Quantity: 2},
		{ProductID: productID, Kind: enums.MovementKindAdjustment, Quantity: -7},
		{ProductID: productID, Kind: enums.MovementKindSale, Quantity: 9},
	}
	for _, move := range moves {
		_, err := svc.RecordMovement(ctx, move)
		require.NoError(t, err)
	}

	sum, err := repo.SumDeltas(ctx, productID)
	require.NoError(t, err)
	assert.EqualValues(t, loadStock(t, conn, productID), sum,
		"stock counter must equal the sum of signed ledger deltas")
	assert.Equal(t, 24, loadStock(t, conn, productID))
}

func TestSaleRollsBackWhenLineItemInsertFails(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 5)
	orderID := seedOrder(t, conn, enums.OrderStatusPending)

	// force the final write of the unit of work to fail
	require.NoError(t, conn.Exec("DROP TABLE order_items").Error)

	_, err := svc.RecordSaleForOrderLine(ctx, RecordSaleInput{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(3),
	})
	require.Error(t, err)

	assert.Equal(t, 5, loadStock(t, conn, productID), "stock change must roll back")
	assert.EqualValues(t, 0, countEntries(t, conn, productID), "ledger entry must roll back")
}

func TestListMovementsPaginates(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	productID := seedProduct(t, conn, 100)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordMovement(ctx, RecordMovementInput{
			ProductID: productID,
			Kind:      enums.MovementKindSale,
			Quantity:  1,
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	first, err := svc.ListMovements(ctx, ListEntriesFilter{
		ProductID: &productID,
		Page:      pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	second, err := svc.ListMovements(ctx, ListEntriesFilter{
		ProductID: &productID,
		Page:      pagination.Params{Limit: 2, Cursor: *first.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Nil(t, second.NextCursor)
}

// contentionRepo makes the first failures stock updates fail the way a
// contended postgres transaction does, then behaves normally.
type contentionRepo struct {
	Repository
	failures *int
	attempts *int
}

func (r *contentionRepo) WithTx(tx *gorm.DB) Repository {
	return &contentionRepo{Repository: r.Repository.WithTx(tx), failures: r.failures, attempts: r.attempts}
}

func (r *contentionRepo) ApplyStockDelta(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	*r.attempts++
	if *r.failures > 0 {
		*r.failures--
		return false, &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
	}
	return r.Repository.ApplyStockDelta(ctx, productID, delta)
}

func newContentionService(t *testing.T, conn *gorm.DB, failures int, retries int) (Service, *int) {
	t.Helper()

	attempts := 0
	repo := &contentionRepo{Repository: NewRepository(conn), failures: &failures, attempts: &attempts}
	svc, err := NewService(
		db.NewWithConn(conn),
		repo,
		config.InventoryConfig{ConflictRetries: retries, ConflictRetryBackoff: time.Millisecond},
		nil,
		nil,
	)
	require.NoError(t, err)
	return svc, &attempts
}

func TestRecordMovementRetriesLockContention(t *testing.T) {
	conn := setupInventoryTestDB(t)
	productID := seedProduct(t, conn, 10)
	svc, attempts := newContentionService(t, conn, 2, 3)

	entry, err := svc.RecordMovement(context.Background(), RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindSale,
		Quantity:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, -4, entry.QuantityDelta)
	assert.Equal(t, 3, *attempts, "two contended attempts then one clean one")
	assert.Equal(t, 6, loadStock(t, conn, productID))
	assert.EqualValues(t, 1, countEntries(t, conn, productID))
}

func TestRecordMovementConflictAfterRetryBudget(t *testing.T) {
	conn := setupInventoryTestDB(t)
	productID := seedProduct(t, conn, 10)
	svc, attempts := newContentionService(t, conn, 100, 3)

	_, err := svc.RecordMovement(context.Background(), RecordMovementInput{
		ProductID: productID,
		Kind:      enums.MovementKindSale,
		Quantity:  4,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, 4, *attempts, "initial attempt plus the configured retries")
	assert.Equal(t, 10, loadStock(t, conn, productID), "no partial write may survive the conflict")
	assert.EqualValues(t, 0, countEntries(t, conn, productID))
}

func TestListMovementsRejectsUnknownKind(t *testing.T) {
	conn := setupInventoryTestDB(t)
	svc := newTestService(t, conn)

	bad := enums.MovementKind("restock")
	_, err := svc.ListMovements(context.Background(), ListEntriesFilter{Kind: &bad})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
