package address

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
	"github.com/karangtaruna-pekunden/marketplace/pkg/nominatim"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

// minQueryLength is the shortest query worth sending to the geocoder.
const minQueryLength = 3

type geocoder interface {
	Search(ctx context.Context, query string) ([]nominatim.Place, error)
	Reverse(ctx context.Context, lat, lon float64) (*nominatim.Place, error)
}

// Service turns typed text or a map pin into delivery addresses.
type Service interface {
	Search(ctx context.Context, query string) ([]types.Address, error)
	Reverse(ctx context.Context, lat, lng float64) (types.Address, error)
}

type service struct {
	geo  geocoder
	logg *logger.Logger
}

func NewService(geo geocoder, logg *logger.Logger) (Service, error) {
	if geo == nil {
		return nil, fmt.Errorf("geocoder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{geo: geo, logg: logg}, nil
}

// Search returns suggestions for query. Short queries and geocoder failures yield an
// empty list.
func (s *service) Search(ctx context.Context, query string) ([]types.Address, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []types.Address{}, nil
	}

	places, err := s.geo.Search(ctx, query)
	if err != nil {
		depCtx := s.logg.WithDependency(ctx, metrics.DependencyNominatim)
		s.logg.Warn(s.logg.WithField(depCtx, "error", err.Error()), "address search failed")
		return []types.Address{}, nil
	}

	out := make([]types.Address, 0, len(places))
	for _, p := range places {
		out = append(out, fromSearch(p))
	}
	return out, nil
}

func (s *service) Reverse(ctx context.Context, lat, lng float64) (types.Address, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return types.Address{}, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}

	place, err := s.geo.Reverse(ctx, lat, lng)
	if err != nil {
		depCtx := s.logg.WithDependency(ctx, metrics.DependencyNominatim)
		s.logg.Warn(s.logg.WithField(depCtx, "error", err.Error()), "reverse geocode failed")
		if pkgerrors.As(err) != nil {
			return types.Address{}, err
		}
		return types.Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse geocode failed")
	}
	return fromReverse(*place, lat, lng), nil
}

func fromSearch(p nominatim.Place) types.Address {
	a := p.Address
	return types.Address{
		Street:      firstNonEmpty(a.Road, p.DisplayName),
		City:        firstNonEmpty(a.City, a.Town, a.Village),
		District:    firstNonEmpty(a.Suburb, a.CityDistrict),
		PostalCode:  a.Postcode,
		Coordinates: &types.Coordinates{Lat: p.Lat, Lng: p.Lon},
		FullAddress: p.DisplayName,
	}
}

func fromReverse(p nominatim.Place, lat, lng float64) types.Address {
	a := p.Address
	return types.Address{
		Street:      firstNonEmpty(a.Road, a.Pedestrian, a.Footway, a.Cycleway, a.Neighbourhood, p.DisplayName),
		City:        firstNonEmpty(a.City, a.Town, a.Village),
		District:    firstNonEmpty(a.Suburb, a.CityDistrict, a.Neighbourhood),
		PostalCode:  a.Postcode,
		Coordinates: &types.Coordinates{Lat: lat, Lng: lng},
		FullAddress: p.DisplayName,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
