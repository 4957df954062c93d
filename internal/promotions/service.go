package promotions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
)

// Service exposes promotion management operations.
type Service interface {
	Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Promotion], error)
	LinkProduct(ctx context.Context, promotionID, productID uuid.UUID) (*models.PromotionProduct, error)
	ListLinkedProducts(ctx context.Context, promotionID uuid.UUID) ([]LinkedProductRow, error)
}

// CreatePromotionInput holds the promotion payload.
type CreatePromotionInput struct {
	Name          string
	Description   *string
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	Active        *bool
}

type service struct {
	repo Repository
}

// NewService constructs a promotion service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid discount type %q", input.DiscountType))
	}
	if input.DiscountValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede start date")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	promotion := &models.Promotion{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Active:        active,
	}
	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return promotion, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Promotion], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Promotion]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(p models.Promotion) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), nil
}

func (s *service) LinkProduct(ctx context.Context, promotionID, productID uuid.UUID) (*models.PromotionProduct, error) {
	promotion, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	link := &models.PromotionProduct{PromotionID: promotionID, ProductID: productID}
	if err := s.repo.LinkProduct(ctx, link); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already linked to promotion")
		}
		return nil, err
	}
	return link, nil
}

func (s *service) ListLinkedProducts(ctx context.Context, promotionID uuid.UUID) ([]LinkedProductRow, error) {
	promotion, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return s.repo.ListLinkedProducts(ctx, promotionID)
}
