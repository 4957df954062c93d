package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	topListLimit    = 5
	salesByDayLimit = 30
)

// SalesSummary aggregates order and revenue figures. Revenue, the average,
// and the breakdowns cover completed orders only.
type SalesSummary struct {
	TotalOrders       int64              `json:"total_orders"`
	CompletedOrders   int64              `json:"completed_orders"`
	TotalRevenue      decimal.Decimal    `json:"total_revenue"`
	AverageOrderValue decimal.Decimal    `json:"average_order_value"`
	ByDay             []DailySalesRow    `json:"by_day"`
	ByPaymentMethod   []PaymentMethodRow `json:"by_payment_method"`
	TopProducts       []TopProductRow    `json:"top_products"`
}

// InventorySummary aggregates catalog and stock figures.
type InventorySummary struct {
	TotalProducts        int64              `json:"total_products"`
	TotalStockValue      decimal.Decimal    `json:"total_stock_value"`
	LowStockCount        int64              `json:"low_stock_count"`
	CategoryDistribution []CategoryCountRow `json:"category_distribution"`
}

// FinancialSummary derives margin figures from completed-order revenue.
type FinancialSummary struct {
	Revenue     decimal.Decimal `json:"revenue"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
}

// EmployeeSummary aggregates headcount and per-employee order volume.
type EmployeeSummary struct {
	TotalEmployees    int64              `json:"total_employees"`
	OrdersPerEmployee []EmployeeOrderRow `json:"orders_per_employee"`
}

// CustomerSummary aggregates customer acquisition and activity figures.
type CustomerSummary struct {
	TotalCustomers   int64            `json:"total_customers"`
	NewLast30Days    int64            `json:"new_last_30_days"`
	ActiveLast90Days int64            `json:"active_last_90_days"`
	TopCustomers     []TopCustomerRow `json:"top_customers"`
}

// Service exposes the reporting read models.
type Service interface {
	SalesSummary(ctx context.Context) (*SalesSummary, error)
	InventorySummary(ctx context.Context) (*InventorySummary, error)
	FinancialSummary(ctx context.Context) (*FinancialSummary, error)
	EmployeeSummary(ctx context.Context) (*EmployeeSummary, error)
	CustomerSummary(ctx context.Context) (*CustomerSummary, error)
}

type service struct {
	repo Repository
}

// NewService constructs a report service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) SalesSummary(ctx context.Context) (*SalesSummary, error) {
	orders, err := s.repo.OrderCount(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CompletedOrderCount(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	byDay, err := s.repo.SalesByDay(ctx, salesByDayLimit)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.repo.SalesByPaymentMethod(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, topListLimit)
	if err != nil {
		return nil, err
	}

	// revenue is completed-only, so the average divides by the same population
	avg := decimal.Zero
	if completed > 0 {
		avg = revenue.Div(decimal.NewFromInt(completed)).Round(2)
	}
	return &SalesSummary{
		TotalOrders:       orders,
		CompletedOrders:   completed,
		TotalRevenue:      revenue,
		AverageOrderValue: avg,
		ByDay:             byDay,
		ByPaymentMethod:   byMethod,
		TopProducts:       top,
	}, nil
}

func (s *service) InventorySummary(ctx context.Context) (*InventorySummary, error) {
	products, err := s.repo.ProductCount(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.repo.StockValue(ctx)
	if err != nil {
		return nil, err
	}
	low, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.CategoryDistribution(ctx)
	if err != nil {
		return nil, err
	}
	return &InventorySummary{
		TotalProducts:        products,
		TotalStockValue:      value,
		LowStockCount:        low,
		CategoryDistribution: dist,
	}, nil
}

// FinancialSummary estimates cost of goods at 70% of revenue. There is no
// per-product cost column to derive it from yet.
func (s *service) FinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	cogs := revenue.Mul(decimal.NewFromFloat(0.7)).Round(2)
	return &FinancialSummary{
		Revenue:     revenue,
		CostOfGoods: cogs,
		GrossProfit: revenue.Sub(cogs),
	}, nil
}

func (s *service) EmployeeSummary(ctx context.Context) (*EmployeeSummary, error) {
	total, err := s.repo.EmployeeCount(ctx)
	if err != nil {
		return nil, err
	}
	perEmployee, err := s.repo.OrdersPerEmployee(ctx)
	if err != nil {
		return nil, err
	}
	return &EmployeeSummary{TotalEmployees: total, OrdersPerEmployee: perEmployee}, nil
}

func (s *service) CustomerSummary(ctx context.Context) (*CustomerSummary, error) {
	total, err := s.repo.CustomerCount(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	newCount, err := s.repo.NewCustomersSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	activeCount, err := s.repo.ActiveCustomersSince(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopCustomers(ctx, topListLimit)
	if err != nil {
		return nil, err
	}
	return &CustomerSummary{
		TotalCustomers:   total,
		NewLast30Days:    newCount,
		ActiveLast90Days: activeCount,
		TopCustomers:     top,
	}, nil
}
