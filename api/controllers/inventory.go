package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	inventorysvc "github.com/smartgrocer/grocer-backend/internal/inventory"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type recordMovementRequest struct {
	ProductID   uuid.UUID  `json:"product_id" validate:"required"`
	Kind        string     `json:"kind" validate:"required"`
	Quantity    int        `json:"quantity" validate:"required"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

type createOrderItemRequest struct {
	OrderID   uuid.UUID `json:"order_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	UnitPrice string    `json:"unit_price" validate:"required"`
}

// InventoryRecordMovement appends one manual ledger movement.
func InventoryRecordMovement(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordMovementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseMovementKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
			return
		}

		entry, err := svc.RecordMovement(r.Context(), inventorysvc.RecordMovementInput{
			ProductID:   payload.ProductID,
			Kind:        kind,
			Quantity:    payload.Quantity,
			ReferenceID: payload.ReferenceID,
			Note:        payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// InventoryListMovements lists ledger entries newest first, filterable by
// product and kind.
func InventoryListMovements(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := inventorysvc.ListEntriesFilter{Page: page}

		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.ProductID = productID

		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, parseErr := enums.ParseMovementKind(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid kind"))
				return
			}
			filter.Kind = &kind
		}

		result, err := svc.ListMovements(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderItemCreate records a sale: the order line and its ledger movement are
// written in one transaction.
func OrderItemCreate(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitPrice, err := decimal.NewFromString(payload.UnitPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unit_price must be a decimal string"))
			return
		}
		if unitPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative"))
			return
		}

		result, err := svc.RecordSaleForOrderLine(r.Context(), inventorysvc.RecordSaleInput{
			OrderID:   payload.OrderID,
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			UnitPrice: unitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
