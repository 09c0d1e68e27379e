package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/werego/werego-api/external/geoinfo"
	"github.com/werego/werego-api/schema"
)

var (
	ErrNoGeoInfoFound = fmt.Errorf("%w: no geo information found", schema.ErrValidation)
	ErrNotCoordinates = fmt.Errorf("%w: expected \"latitude,longitude\"", schema.ErrValidation)
)

// LocationResolver - interface for resolving a user supplied place into a coordinate
type LocationResolver interface {
	Resolve(ctx context.Context, query string) (schema.Location, error)
}

type MultipleResolverErrors struct {
	errors []error
}

func (e *MultipleResolverErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

func (e *MultipleResolverErrors) Unwrap() []error {
	return e.errors
}

func NewMultipleResolverErrors(errors []error) *MultipleResolverErrors {
	return &MultipleResolverErrors{
		errors: errors,
	}
}

// ParseLatLng parses "lat,lng" into a validated location
func ParseLatLng(s string) (schema.Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return schema.Location{}, ErrNotCoordinates
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return schema.Location{}, ErrNotCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return schema.Location{}, ErrNotCoordinates
	}

	loc := schema.Location{Latitude: lat, Longitude: lng}
	if err := loc.Validate(); err != nil {
		return schema.Location{}, err
	}
	return loc, nil
}

type CoordinateLocationResolver struct{}

func (CoordinateLocationResolver) Resolve(_ context.Context, query string) (schema.Location, error) {
	return ParseLatLng(query)
}

type GeocodingLocationResolver struct {
	client geoinfo.GeoInfo
}

func NewGeocodingLocationResolver(client geoinfo.GeoInfo) *GeocodingLocationResolver {
	return &GeocodingLocationResolver{
		client: client,
	}
}

func (g *GeocodingLocationResolver) Resolve(ctx context.Context, query string) (schema.Location, error) {
	if strings.TrimSpace(query) == "" {
		return schema.Location{}, ErrNoGeoInfoFound
	}

	geos, err := g.client.Geocode(ctx, query)
	if err != nil {
		return schema.Location{}, err
	}

	if len(geos) == 0 {
		return schema.Location{}, ErrNoGeoInfoFound
	}

	return schema.Location{
		Latitude:  geos[0].Geometry.Location.Lat,
		Longitude: geos[0].Geometry.Location.Lng,
	}, nil
}

// MultipleLocationResolver tries each resolver in order and returns the first success
type MultipleLocationResolver struct {
	resolvers []LocationResolver
}

func NewMultipleLocationResolver(resolvers ...LocationResolver) *MultipleLocationResolver {
	return &MultipleLocationResolver{
		resolvers: resolvers,
	}
}

func (r *MultipleLocationResolver) Resolve(ctx context.Context, query string) (schema.Location, error) {
	var errs []error
	for _, resolver := range r.resolvers {
		result, err := resolver.Resolve(ctx, query)
		if err == nil {
			return result, nil
		}
		errs = append(errs, err)

		// an out of range coordinate will not be fixed by geocoding it
		if errors.Is(err, schema.ErrValidation) && !errors.Is(err, ErrNotCoordinates) && !errors.Is(err, ErrNoGeoInfoFound) {
			return schema.Location{}, err
		}
	}

	if len(errs) == 1 {
		return schema.Location{}, errs[0]
	}
	return schema.Location{}, NewMultipleResolverErrors(errs)
}
