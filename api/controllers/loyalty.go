package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	loyaltysvc "github.com/smartgrocer/grocer-backend/internal/loyalty"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createLoyaltyProgramRequest struct {
	Name          string `json:"name" validate:"required"`
	PointsPerUnit string `json:"points_per_unit" validate:"required"`
}

type recordPointsRequest struct {
	OrderID *uuid.UUID `json:"order_id,omitempty"`
	Points  int        `json:"points" validate:"required"`
	Reason  string     `json:"reason" validate:"required"`
}

func LoyaltyProgramCreate(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createLoyaltyProgramRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perUnit, err := decimal.NewFromString(payload.PointsPerUnit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "points_per_unit must be a decimal string"))
			return
		}
		program, err := svc.CreateProgram(r.Context(), loyaltysvc.CreateProgramInput{
			Name:          payload.Name,
			PointsPerUnit: perUnit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, program)
	}
}

func LoyaltyProgramList(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programs, err := svc.ListPrograms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, programs)
	}
}

// LoyaltyRecordPoints credits or redeems points for a customer.
func LoyaltyRecordPoints(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload recordPointsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.RecordPoints(r.Context(), loyaltysvc.RecordPointsInput{
			CustomerID: customerID,
			OrderID:    payload.OrderID,
			Points:     payload.Points,
			Reason:     payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func LoyaltyCustomerPoints(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		points, err := svc.CustomerPoints(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}
