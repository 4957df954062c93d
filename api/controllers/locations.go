package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	locationsvc "github.com/smartgrocer/grocer-backend/internal/locations"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createLocationRequest struct {
	Name      string     `json:"name" validate:"required"`
	Address   string     `json:"address" validate:"required"`
	City      *string    `json:"city,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
}

type setLocationInventoryRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

func LocationCreate(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createLocationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.Create(r.Context(), locationsvc.CreateLocationInput{
			Name:      payload.Name,
			Address:   payload.Address,
			City:      payload.City,
			Phone:     payload.Phone,
			ManagerID: payload.ManagerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, location)
	}
}

func LocationDetail(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, location)
	}
}

func LocationList(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func LocationInventory(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListInventory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// LocationSetInventory records a branch stock snapshot. These figures are
// informational; the ledger remains the source of truth for total stock.
func LocationSetInventory(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setLocationInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetInventory(r.Context(), locationsvc.SetInventoryInput{
			LocationID: id,
			ProductID:  payload.ProductID,
			Quantity:   payload.Quantity,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}
