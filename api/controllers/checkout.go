package controllers

import (
	"net/http"
	"strings"

	"github.com/karangtaruna-pekunden/marketplace/api/middleware"
	"github.com/karangtaruna-pekunden/marketplace/api/responses"
	"github.com/karangtaruna-pekunden/marketplace/api/validators"
	checkoutsvc "github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

// CheckoutCart composes the WhatsApp order for the caller's cart.
func CheckoutCart(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		cartID := middleware.CartIDFromContext(r.Context())
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart token required"))
			return
		}

		result, err := svc.Checkout(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type directCheckoutRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=999"`
}

// CheckoutDirect is the single-product "Pesan via WhatsApp" button.
func CheckoutDirect(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		var payload directCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}

		result, err := svc.DirectCheckout(r.Context(), strings.TrimSpace(payload.ProductID), quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
