package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	ordersvc "github.com/smartgrocer/grocer-backend/internal/orders"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createOrderRequest struct {
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	EmployeeID    *uuid.UUID `json:"employee_id,omitempty"`
	OrderDate     *time.Time `json:"order_date,omitempty"`
	Status        *string    `json:"status,omitempty"`
	TotalAmount   string     `json:"total_amount" validate:"required"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total, err := decimal.NewFromString(payload.TotalAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "total_amount must be a decimal string"))
			return
		}

		input := ordersvc.CreateOrderInput{
			CustomerID:    payload.CustomerID,
			EmployeeID:    payload.EmployeeID,
			OrderDate:     payload.OrderDate,
			TotalAmount:   total,
			PaymentMethod: payload.PaymentMethod,
			Notes:         payload.Notes,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseOrderStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			input.Status = &status
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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

// OrderTransitionStatus moves an order along the pending → processing →
// completed/cancelled state machine.
func OrderTransitionStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		order, err := svc.TransitionStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderItems(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListItems(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
