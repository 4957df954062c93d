package controllers

import (
	"net/http"
	"time"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	employeesvc "github.com/smartgrocer/grocer-backend/internal/employees"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createEmployeeRequest struct {
	Name     string     `json:"name" validate:"required"`
	Position string     `json:"position" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    *string    `json:"phone,omitempty"`
	HireDate *time.Time `json:"hire_date,omitempty"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=8"`
}

func EmployeeCreate(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Create(r.Context(), employeesvc.CreateEmployeeInput{
			Name:     payload.Name,
			Position: payload.Position,
			Email:    payload.Email,
			Phone:    payload.Phone,
			HireDate: payload.HireDate,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// never echo the hash
		employee.PasswordHash = nil
		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

func EmployeeList(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		for i := range result.Items {
			result.Items[i].PasswordHash = nil
		}
		responses.WriteSuccess(w, result)
	}
}
