package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	productsvc "github.com/smartgrocer/grocer-backend/internal/products"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	SKU           string  `json:"sku" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	Price         string  `json:"price" validate:"required"`
	StockQuantity int     `json:"stock_quantity" validate:"omitempty,min=0"`
	Status        *string `json:"status,omitempty"`
}

type updateProductRequest struct {
	Name     *string `json:"name,omitempty"`
	SKU      *string `json:"sku,omitempty"`
	Category *string `json:"category,omitempty"`
	Price    *string `json:"price,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ProductCreate handles catalog creation; initial stock becomes an opening
// ledger movement.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parsePrice(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.CreateProductInput{
			Name:          payload.Name,
			SKU:           payload.SKU,
			Category:      payload.Category,
			Price:         price,
			StockQuantity: payload.StockQuantity,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseProductStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			input.Status = &status
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:     payload.Name,
			SKU:      payload.SKU,
			Category: payload.Category,
		}
		if payload.Price != nil {
			price, parseErr := parsePrice(*payload.Price)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			input.Price = &price
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseProductStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			input.Status = &status
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be a decimal string")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price, nil
}
