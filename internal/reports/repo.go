package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// lowStockThreshold flags products that need reordering.
const lowStockThreshold = 20

// TopProductRow is a product ranked by units sold.
type TopProductRow struct {
	ProductID uuid.UUID       `gorm:"column:product_id" json:"product_id"`
	Name      string          `gorm:"column:name" json:"name"`
	UnitsSold int64           `gorm:"column:units_sold" json:"units_sold"`
	Revenue   decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// DailySalesRow is completed-order volume and revenue for one calendar day.
type DailySalesRow struct {
	Day        string          `gorm:"column:day" json:"day"`
	OrderCount int64           `gorm:"column:order_count" json:"order_count"`
	Revenue    decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// PaymentMethodRow is completed-order volume and revenue per payment method.
type PaymentMethodRow struct {
	PaymentMethod string          `gorm:"column:payment_method" json:"payment_method"`
	OrderCount    int64           `gorm:"column:order_count" json:"order_count"`
	Revenue       decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// CategoryCountRow is a product count per category.
type CategoryCountRow struct {
	Category string `gorm:"column:category" json:"category"`
	Count    int64  `gorm:"column:count" json:"count"`
}

// EmployeeOrderRow is an order count per employee.
type EmployeeOrderRow struct {
	EmployeeID uuid.UUID `gorm:"column:employee_id" json:"employee_id"`
	Name       string    `gorm:"column:name" json:"name"`
	OrderCount int64     `gorm:"column:order_count" json:"order_count"`
}

// TopCustomerRow is a customer ranked by total spend.
type TopCustomerRow struct {
	CustomerID uuid.UUID       `gorm:"column:customer_id" json:"customer_id"`
	Name       string          `gorm:"column:name" json:"name"`
	OrderCount int64           `gorm:"column:order_count" json:"order_count"`
	TotalSpent decimal.Decimal `gorm:"column:total_spent" json:"total_spent"`
}

// Repository runs the read-only aggregate queries behind the report endpoints.
type Repository interface {
	OrderCount(ctx context.Context) (int64, error)
	CompletedOrderCount(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	SalesByDay(ctx context.Context, limit int) ([]DailySalesRow, error)
	SalesByPaymentMethod(ctx context.Context) ([]PaymentMethodRow, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)
	ProductCount(ctx context.Context) (int64, error)
	StockValue(ctx context.Context) (decimal.Decimal, error)
	LowStockCount(ctx context.Context) (int64, error)
	CategoryDistribution(ctx context.Context) ([]CategoryCountRow, error)
	EmployeeCount(ctx context.Context) (int64, error)
	OrdersPerEmployee(ctx context.Context) ([]EmployeeOrderRow, error)
	CustomerCount(ctx context.Context) (int64, error)
	NewCustomersSince(ctx context.Context, since time.Time) (int64, error)
	ActiveCustomersSince(ctx context.Context, since time.Time) (int64, error)
	TopCustomers(ctx context.Context, limit int) ([]TopCustomerRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a report repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("orders").Count(&count).Error
	return count, err
}

func (r *repository) CompletedOrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("orders").
		Where("status = ?", "completed").
		Count(&count).Error
	return count, err
}

// Revenue counts completed orders only; cancelled and in-flight orders do
// not contribute.
func (r *repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("orders").
		Where("status = ?", "completed").
		Select("SUM(total_amount)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *repository) SalesByDay(ctx context.Context, limit int) ([]DailySalesRow, error) {
	var rows []DailySalesRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("DATE(order_date) AS day, COUNT(id) AS order_count, SUM(total_amount) AS revenue").
		Where("status = ?", "completed").
		Group("DATE(order_date)").
		Order("day DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) SalesByPaymentMethod(ctx context.Context) ([]PaymentMethodRow, error) {
	var rows []PaymentMethodRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`COALESCE(payment_method, 'unspecified') AS payment_method,
			COUNT(id) AS order_count,
			SUM(total_amount) AS revenue`).
		Where("status = ?", "completed").
		Group("COALESCE(payment_method, 'unspecified')").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id,
			products.name,
			SUM(order_items.quantity) AS units_sold,
			SUM(order_items.quantity * order_items.unit_price) AS revenue`).
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("products").Count(&count).Error
	return count, err
}

func (r *repository) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("products").
		Select("SUM(stock_quantity * price)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *repository) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("products").
		Where("stock_quantity < ?", lowStockThreshold).
		Count(&count).Error
	return count, err
}

func (r *repository) CategoryDistribution(ctx context.Context) ([]CategoryCountRow, error) {
	var rows []CategoryCountRow
	err := r.db.WithContext(ctx).
		Table("products").
		Select("categories.name AS category, COUNT(products.id) AS count").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Group("categories.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) EmployeeCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("employees").Count(&count).Error
	return count, err
}

func (r *repository) OrdersPerEmployee(ctx context.Context) ([]EmployeeOrderRow, error) {
	var rows []EmployeeOrderRow
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("employees.id AS employee_id, employees.name, COUNT(orders.id) AS order_count").
		Joins("LEFT JOIN orders ON orders.employee_id = employees.id").
		Group("employees.id, employees.name").
		Order("order_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("customers").Count(&count).Error
	return count, err
}

func (r *repository) NewCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("customers").
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) ActiveCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("orders").
		Where("created_at >= ? AND customer_id IS NOT NULL", since).
		Select("COUNT(DISTINCT customer_id)").
		Scan(&count).Error
	return count, err
}

func (r *repository) TopCustomers(ctx context.Context, limit int) ([]TopCustomerRow, error) {
	var rows []TopCustomerRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.customer_id,
			customers.name,
			COUNT(orders.id) AS order_count,
			SUM(orders.total_amount) AS total_spent`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Group("orders.customer_id, customers.name").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
