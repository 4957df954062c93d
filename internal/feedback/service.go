package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
)

// Service exposes customer feedback operations.
type Service interface {
	Create(ctx context.Context, input CreateFeedbackInput) (*models.Feedback, error)
	List(ctx context.Context) ([]FeedbackRow, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]FeedbackRow, error)
}

// CreateFeedbackInput holds the feedback payload. Rating is 1 to 5.
type CreateFeedbackInput struct {
	CustomerID *uuid.UUID
	OrderID    *uuid.UUID
	Rating     int
	Comment    *string
}

type service struct {
	repo Repository
}

// NewService constructs a feedback service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateFeedbackInput) (*models.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if input.CustomerID != nil {
		exists, err := s.repo.CustomerExists(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
	}
	if input.OrderID != nil {
		exists, err := s.repo.OrderExists(ctx, *input.OrderID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}

	entry := &models.Feedback{
		CustomerID: input.CustomerID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) List(ctx context.Context) ([]FeedbackRow, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]FeedbackRow, error) {
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.repo.ListByProduct(ctx, productID)
}
