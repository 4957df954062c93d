package loyalty

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
)

// Service exposes loyalty program and customer point operations.
type Service interface {
	CreateProgram(ctx context.Context, input CreateProgramInput) (*models.LoyaltyProgram, error)
	ListPrograms(ctx context.Context) ([]models.LoyaltyProgram, error)
	RecordPoints(ctx context.Context, input RecordPointsInput) (*models.LoyaltyPointTransaction, error)
	CustomerPoints(ctx context.Context, customerID uuid.UUID) (*CustomerPoints, error)
}

// CreateProgramInput holds the loyalty program payload.
type CreateProgramInput struct {
	Name          string
	PointsPerUnit decimal.Decimal
}

// RecordPointsInput records earned (positive) or redeemed (negative) points.
type RecordPointsInput struct {
	CustomerID uuid.UUID
	OrderID    *uuid.UUID
	Points     int
	Reason     string
}

// CustomerPoints is a customer's point history with the running balance.
type CustomerPoints struct {
	Total        int64                            `json:"total"`
	Transactions []models.LoyaltyPointTransaction `json:"transactions"`
}

type service struct {
	repo Repository
}

// NewService constructs a loyalty service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProgram(ctx context.Context, input CreateProgramInput) (*models.LoyaltyProgram, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PointsPerUnit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points per unit cannot be negative")
	}

	program := &models.LoyaltyProgram{
		Name:          strings.TrimSpace(input.Name),
		PointsPerUnit: input.PointsPerUnit,
		Active:        true,
	}
	if err := s.repo.CreateProgram(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *service) ListPrograms(ctx context.Context) ([]models.LoyaltyProgram, error) {
	return s.repo.ListPrograms(ctx)
}

func (s *service) RecordPoints(ctx context.Context, input RecordPointsInput) (*models.LoyaltyPointTransaction, error) {
	if input.Points == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points cannot be zero")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	exists, err := s.repo.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	if input.OrderID != nil {
		found, err := s.repo.OrderExists(ctx, *input.OrderID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}

	// Redemptions may not push the balance below zero.
	if input.Points < 0 {
		total, err := s.repo.SumPoints(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if total+int64(input.Points) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient loyalty points").
				WithDetails(map[string]any{"reason": "insufficient_points", "balance": total})
		}
	}

	txn := &models.LoyaltyPointTransaction{
		CustomerID: input.CustomerID,
		OrderID:    input.OrderID,
		Points:     input.Points,
		Reason:     strings.TrimSpace(input.Reason),
	}
	if err := s.repo.CreatePointTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) CustomerPoints(ctx context.Context, customerID uuid.UUID) (*CustomerPoints, error) {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	txns, err := s.repo.ListPointTransactions(ctx, customerID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumPoints(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerPoints{Total: total, Transactions: txns}, nil
}
