package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/api/validators"
	feedbacksvc "github.com/smartgrocer/grocer-backend/internal/feedback"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

type createFeedbackRequest struct {
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	Rating     int        `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string    `json:"comment,omitempty"`
}

func FeedbackCreate(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFeedbackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.Create(r.Context(), feedbacksvc.CreateFeedbackInput{
			CustomerID: payload.CustomerID,
			OrderID:    payload.OrderID,
			Rating:     payload.Rating,
			Comment:    payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func FeedbackList(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func FeedbackByProduct(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
