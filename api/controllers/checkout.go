package controllers

import (
	"net/http"

	"github.com/hamnakhalid/kitchenia-backend/api/responses"
	"github.com/hamnakhalid/kitchenia-backend/api/validators"
	"github.com/hamnakhalid/kitchenia-backend/internal/checkout"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
)

type checkoutRequest struct {
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	Notes         *string `json:"notes"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

// CheckoutSubmit turns the cart behind X-Cart-Id into an order.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCartID(ctx, cartID)
		}

		confirmation, err := svc.Submit(ctx, checkout.SubmitInput{
			CartID:        cartID,
			Name:          payload.Name,
			Phone:         payload.Phone,
			Address:       payload.Address,
			Notes:         payload.Notes,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
