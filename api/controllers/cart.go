package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/karangtaruna-pekunden/marketplace/api/middleware"
	"github.com/karangtaruna-pekunden/marketplace/api/responses"
	"github.com/karangtaruna-pekunden/marketplace/api/validators"
	cartsvc "github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/pkg/cartoken"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

const maxNoteLength = 500

type createCartResponse struct {
	Token string         `json:"token"`
	Cart  *cartsvc.State `json:"cart"`
}

// CartCreate opens an empty cart and hands back its token in the body and X-Cart-Token.
func CartCreate(svc cartsvc.Service, tokens config.CartTokenConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		state, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := uuid.Parse(state.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid cart id"))
			return
		}
		token, err := cartoken.Mint(tokens, time.Now(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint cart token"))
			return
		}

		w.Header().Set(cartoken.Header, token)
		responses.WriteSuccessStatus(w, http.StatusCreated, createCartResponse{Token: token, Cart: state})
	}
}

func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		return svc.Get(r.Context(), cartID)
	})
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		return svc.Clear(r.Context(), cartID)
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=999"`
}

func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return svc.AddItem(r.Context(), cartID, strings.TrimSpace(payload.ProductID), quantity)
	})
}

type updateItemRequest struct {
	Quantity *int    `json:"quantity" validate:"omitempty,min=0,max=999"`
	Note     *string `json:"note"`
}

// CartUpdateItem changes quantity and/or note. Quantity 0 removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		if payload.Quantity == nil && payload.Note == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity or note is required")
		}

		var (
			state *cartsvc.State
			err   error
		)
		if payload.Quantity != nil {
			state, err = svc.UpdateQuantity(r.Context(), cartID, productID, *payload.Quantity)
			if err != nil {
				return nil, err
			}
			if *payload.Quantity == 0 {
				return state, nil
			}
		}
		if payload.Note != nil {
			note := validators.SanitizeString(*payload.Note, maxNoteLength)
			state, err = svc.UpdateNote(r.Context(), cartID, productID, note)
		}
		return state, err
	})
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		return svc.RemoveItem(r.Context(), cartID, productID)
	})
}

type setAddressRequest struct {
	Street      string             `json:"street" validate:"max=300"`
	City        string             `json:"city" validate:"max=120"`
	District    string             `json:"district" validate:"max=120"`
	PostalCode  string             `json:"postalCode" validate:"max=16"`
	Coordinates *types.Coordinates `json:"coordinates"`
	FullAddress string             `json:"fullAddress" validate:"max=500"`
	Detail      string             `json:"detail" validate:"max=500"`
}

func (p setAddressRequest) toAddress() (types.Address, error) {
	if c := p.Coordinates; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}
	return types.Address{
		Street:      strings.TrimSpace(p.Street),
		City:        strings.TrimSpace(p.City),
		District:    strings.TrimSpace(p.District),
		PostalCode:  strings.TrimSpace(p.PostalCode),
		Coordinates: p.Coordinates,
		FullAddress: strings.TrimSpace(p.FullAddress),
		Detail:      strings.TrimSpace(p.Detail),
	}, nil
}

// CartSetAddress stores the delivery address and waits for the shipping quote.
func CartSetAddress(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, cartID string) (*cartsvc.State, error) {
		var payload setAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		address, err := payload.toAddress()
		if err != nil {
			return nil, err
		}
		return svc.SetAddress(r.Context(), cartID, address)
	})
}

// cartHandler resolves the cart id from context and writes the resulting state.
func cartHandler(svc cartsvc.Service, logg *logger.Logger, fn func(r *http.Request, cartID string) (*cartsvc.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		cartID := middleware.CartIDFromContext(r.Context())
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart token required"))
			return
		}

		state, err := fn(r, cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}
