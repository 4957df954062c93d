package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	deliverysvc "github.com/smartgrocer/grocer-backend/internal/delivery"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createDeliveryZoneRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	DeliveryFee string  `json:"delivery_fee" validate:"required"`
}

type createDeliveryVehicleRequest struct {
	PlateNumber string `json:"plate_number" validate:"required"`
	VehicleType string `json:"vehicle_type" validate:"required"`
	CapacityKG  *int   `json:"capacity_kg,omitempty" validate:"omitempty,min=1"`
}

type createDeliveryAssignmentRequest struct {
	OrderID     uuid.UUID  `json:"order_id" validate:"required"`
	ZoneID      *uuid.UUID `json:"zone_id,omitempty"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	DriverID    *uuid.UUID `json:"driver_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type deliveryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func DeliveryZoneCreate(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDeliveryZoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fee, err := decimal.NewFromString(payload.DeliveryFee)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "delivery_fee must be a decimal string"))
			return
		}
		zone, err := svc.CreateZone(r.Context(), deliverysvc.CreateZoneInput{
			Name:        payload.Name,
			Description: payload.Description,
			DeliveryFee: fee,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

func DeliveryZoneList(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zones, err := svc.ListZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zones)
	}
}

func DeliveryVehicleCreate(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDeliveryVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.CreateVehicle(r.Context(), deliverysvc.CreateVehicleInput{
			PlateNumber: payload.PlateNumber,
			VehicleType: payload.VehicleType,
			CapacityKG:  payload.CapacityKG,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

func DeliveryVehicleList(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles, err := svc.ListVehicles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

func DeliveryAssignmentCreate(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDeliveryAssignmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.CreateAssignment(r.Context(), deliverysvc.CreateAssignmentInput{
			OrderID:     payload.OrderID,
			ZoneID:      payload.ZoneID,
			VehicleID:   payload.VehicleID,
			DriverID:    payload.DriverID,
			ScheduledAt: payload.ScheduledAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

func DeliveryAssignmentList(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments, err := svc.ListAssignments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignments)
	}
}

func DeliveryAssignmentStatus(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload deliveryStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		assignment, err := svc.UpdateAssignmentStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}
