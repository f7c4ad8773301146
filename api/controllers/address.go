package controllers

import (
	"net/http"

	"github.com/karangtaruna-pekunden/marketplace/api/responses"
	"github.com/karangtaruna-pekunden/marketplace/api/validators"
	"github.com/karangtaruna-pekunden/marketplace/internal/address"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

const maxAddressQueryLength = 200

// AddressSearch backs the address autocomplete. Short queries return an empty list.
func AddressSearch(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxAddressQueryLength)
		results, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

// AddressReverse backs "use my location".
func AddressReverse(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}
		lat, err := validators.ParseQueryFloat(r, "lat", -90, 90)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lng, err := validators.ParseQueryFloat(r, "lng", -180, 180)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Reverse(r.Context(), lat, lng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
