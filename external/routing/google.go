package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/schema"
)

const GoogleProviderName = "google"

type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// GoogleDirections - driving routes with traffic aware durations from the Google Directions API
type GoogleDirections struct {
	client directionsClient
}

func NewGoogleDirections(apiKey string, opts ...maps.ClientOption) (*GoogleDirections, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &GoogleDirections{client: client}, nil
}

func (g *GoogleDirections) Name() string {
	return GoogleProviderName
}

func (g *GoogleDirections) Route(ctx context.Context, origin, destination schema.Location) (*schema.RouteGeometry, error) {
	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:        latLngString(origin),
		Destination:   latLngString(destination),
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
	})
	if err != nil {
		return nil, external.Classify("google directions", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	route := routes[0]
	geometry := &schema.RouteGeometry{
		Provider: GoogleProviderName,
		Polyline: route.OverviewPolyline.Points,
	}

	for _, leg := range route.Legs {
		if geometry.StartAddress == "" {
			geometry.StartAddress = leg.StartAddress
		}
		geometry.EndAddress = leg.EndAddress
		geometry.DistanceMeters += float64(leg.Meters)
		geometry.DurationSeconds += leg.Duration.Seconds()
		geometry.DurationInTrafficSeconds += leg.DurationInTraffic.Seconds()

		for _, step := range leg.Steps {
			geometry.Steps = append(geometry.Steps, schema.RouteStep{
				Start:           schema.Location{Latitude: step.StartLocation.Lat, Longitude: step.StartLocation.Lng},
				End:             schema.Location{Latitude: step.EndLocation.Lat, Longitude: step.EndLocation.Lng},
				DistanceMeters:  float64(step.Meters),
				DurationSeconds: step.Duration.Seconds(),
			})
		}
	}

	if route.OverviewPolyline.Points != "" {
		points, err := maps.DecodePolyline(route.OverviewPolyline.Points)
		if err != nil {
			return nil, fmt.Errorf("%w: google directions: malformed polyline: %s", external.ErrUpstream, err)
		}
		geometry.Points = fromLatLngs(points)
	}

	return geometry, nil
}

func fromLatLngs(points []maps.LatLng) []schema.Location {
	locations := make([]schema.Location, 0, len(points))
	for _, p := range points {
		locations = append(locations, schema.Location{Latitude: p.Lat, Longitude: p.Lng})
	}
	return locations
}
