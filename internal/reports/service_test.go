package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReportsRepo struct {
	orderCount     int64
	completedCount int64
	revenue        decimal.Decimal
	byDay          []DailySalesRow
	byMethod       []PaymentMethodRow
	byDayLimit     int
}

func (s *stubReportsRepo) OrderCount(ctx context.Context) (int64, error) {
	return s.orderCount, nil
}

func (s *stubReportsRepo) CompletedOrderCount(ctx context.Context) (int64, error) {
	return s.completedCount, nil
}

func (s *stubReportsRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	return s.revenue, nil
}

func (s *stubReportsRepo) SalesByDay(ctx context.Context, limit int) ([]DailySalesRow, error) {
	s.byDayLimit = limit
	return s.byDay, nil
}

func (s *stubReportsRepo) SalesByPaymentMethod(ctx context.Context) ([]PaymentMethodRow, error) {
	return s.byMethod, nil
}

func (s *stubReportsRepo) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	return nil, nil
}

func (s *stubReportsRepo) ProductCount(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubReportsRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubReportsRepo) LowStockCount(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubReportsRepo) CategoryDistribution(ctx context.Context) ([]CategoryCountRow, error) {
	return nil, nil
}

func (s *stubReportsRepo) EmployeeCount(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubReportsRepo) OrdersPerEmployee(ctx context.Context) ([]EmployeeOrderRow, error) {
	return nil, nil
}

func (s *stubReportsRepo) CustomerCount(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubReportsRepo) NewCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func (s *stubReportsRepo) ActiveCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func (s *stubReportsRepo) TopCustomers(ctx context.Context, limit int) ([]TopCustomerRow, error) {
	return nil, nil
}

func TestSalesSummaryAverageUsesCompletedOrders(t *testing.T) {
	// 10 orders overall but only 4 completed; revenue covers the 4
	repo := &stubReportsRepo{
		orderCount:     10,
		completedCount: 4,
		revenue:        decimal.RequireFromString("100.00"),
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	summary, err := svc.SalesSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, summary.TotalOrders)
	assert.EqualValues(t, 4, summary.CompletedOrders)
	assert.True(t, summary.AverageOrderValue.Equal(decimal.RequireFromString("25.00")),
		"average must divide revenue by completed orders, got %s", summary.AverageOrderValue)
}

func TestSalesSummaryZeroCompletedOrders(t *testing.T) {
	repo := &stubReportsRepo{orderCount: 3}
	svc, err := NewService(repo)
	require.NoError(t, err)

	summary, err := svc.SalesSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.AverageOrderValue.IsZero())
}

func TestSalesSummaryIncludesBreakdowns(t *testing.T) {
	repo := &stubReportsRepo{
		completedCount: 2,
		revenue:        decimal.RequireFromString("30.00"),
		byDay: []DailySalesRow{
			{Day: "2026-08-30", OrderCount: 2, Revenue: decimal.RequireFromString("30.00")},
		},
		byMethod: []PaymentMethodRow{
			{PaymentMethod: "cash", OrderCount: 1, Revenue: decimal.RequireFromString("10.00")},
			{PaymentMethod: "card", OrderCount: 1, Revenue: decimal.RequireFromString("20.00")},
		},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	summary, err := svc.SalesSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.ByDay, 1)
	assert.Equal(t, "2026-08-30", summary.ByDay[0].Day)
	require.Len(t, summary.ByPaymentMethod, 2)
	assert.Equal(t, "cash", summary.ByPaymentMethod[0].PaymentMethod)
	assert.Equal(t, salesByDayLimit, repo.byDayLimit, "daily breakdown is bounded")
}
