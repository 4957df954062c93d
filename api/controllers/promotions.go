package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	promotionsvc "github.com/smartgrocer/grocer-backend/internal/promotions"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createPromotionRequest struct {
	Name          string    `json:"name" validate:"required"`
	Description   *string   `json:"description,omitempty"`
	DiscountType  string    `json:"discount_type" validate:"required"`
	DiscountValue string    `json:"discount_value" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	Active        *bool     `json:"active,omitempty"`
}

type linkPromotionProductRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

func PromotionCreate(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(payload.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount_type"))
			return
		}
		discountValue, err := decimal.NewFromString(payload.DiscountValue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "discount_value must be a decimal string"))
			return
		}

		promotion, err := svc.Create(r.Context(), promotionsvc.CreatePromotionInput{
			Name:          payload.Name,
			Description:   payload.Description,
			DiscountType:  discountType,
			DiscountValue: discountValue,
			StartDate:     payload.StartDate,
			EndDate:       payload.EndDate,
			Active:        payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promotion)
	}
}

func PromotionDetail(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promotion, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotion)
	}
}

func PromotionList(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PromotionLinkProduct attaches a product; linking the same product twice is
// rejected with a conflict.
func PromotionLinkProduct(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload linkPromotionProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := svc.LinkProduct(r.Context(), id, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

func PromotionProducts(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListLinkedProducts(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
