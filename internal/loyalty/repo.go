package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
)

// Repository manages persistence for loyalty programs and point transactions.
type Repository interface {
	CreateProgram(ctx context.Context, program *models.LoyaltyProgram) error
	ListPrograms(ctx context.Context) ([]models.LoyaltyProgram, error)
	CreatePointTransaction(ctx context.Context, txn *models.LoyaltyPointTransaction) error
	ListPointTransactions(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPointTransaction, error)
	SumPoints(ctx context.Context, customerID uuid.UUID) (int64, error)
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
	OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a loyalty repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProgram(ctx context.Context, program *models.LoyaltyProgram) error {
	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *repository) ListPrograms(ctx context.Context) ([]models.LoyaltyProgram, error) {
	var programs []models.LoyaltyProgram
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *repository) CreatePointTransaction(ctx context.Context, txn *models.LoyaltyPointTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListPointTransactions(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPointTransaction, error) {
	var txns []models.LoyaltyPointTransaction
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) SumPoints(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).
		Model(&models.LoyaltyPointTransaction{}).
		Where("customer_id = ?", customerID).
		Select("SUM(points)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
