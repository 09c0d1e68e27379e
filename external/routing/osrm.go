package routing

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/schema"
)

const (
	OSRMProviderName = "osrm"
	defaultOSRMURL   = "https://router.project-osrm.org"

	osrmCodeOK      = "Ok"
	osrmCodeNoRoute = "NoRoute"
)

type osrmManeuver struct {
	Location []float64 `json:"location"`
}

type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

// OSRM - routes from an OSRM server, without live traffic
type OSRM struct {
	url    string
	client *http.Client
}

func NewOSRM(url string, client *http.Client) *OSRM {
	u := defaultOSRMURL
	if url != "" {
		u = url
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &OSRM{
		url:    u,
		client: client,
	}
}

func (o *OSRM) Name() string {
	return OSRMProviderName
}

func (o *OSRM) Route(ctx context.Context, origin, destination schema.Location) (*schema.RouteGeometry, error) {
	// http://router.project-osrm.org/route/v1/driving/2.35,48.85;2.12,48.80?overview=full&steps=true
	query := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline&steps=true",
		o.url, origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, external.Classify("osrm", err)
	}
	defer resp.Body.Close()

	d, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, external.Classify("osrm", err)
	}

	var r osrmResponse
	if err := json.Unmarshal(d, &r); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: osrm: status %d", external.ErrUpstream, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: osrm: %s", external.ErrUpstream, err)
	}

	if r.Code == osrmCodeNoRoute {
		return nil, ErrNoRoute
	}
	if r.Code != osrmCodeOK || resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: osrm: status %d code %s: %s", external.ErrUpstream, resp.StatusCode, r.Code, r.Message)
	}
	if len(r.Routes) == 0 {
		return nil, ErrNoRoute
	}

	return o.toGeometry(r.Routes[0])
}

func (o *OSRM) toGeometry(route osrmRoute) (*schema.RouteGeometry, error) {
	geometry := &schema.RouteGeometry{
		Provider:        OSRMProviderName,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		Polyline:        route.Geometry,
	}

	if route.Geometry != "" {
		points, err := maps.DecodePolyline(route.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%w: osrm: malformed polyline: %s", external.ErrUpstream, err)
		}
		geometry.Points = fromLatLngs(points)
	}

	// a step ends where the next maneuver starts, the final arrive step has no length
	for _, leg := range route.Legs {
		for i := 0; i < len(leg.Steps)-1; i++ {
			start, ok := maneuverLocation(leg.Steps[i])
			if !ok {
				continue
			}
			end, ok := maneuverLocation(leg.Steps[i+1])
			if !ok {
				continue
			}
			geometry.Steps = append(geometry.Steps, schema.RouteStep{
				Start:           start,
				End:             end,
				DistanceMeters:  leg.Steps[i].Distance,
				DurationSeconds: leg.Steps[i].Duration,
			})
		}
	}

	return geometry, nil
}

func maneuverLocation(s osrmStep) (schema.Location, bool) {
	if len(s.Maneuver.Location) != 2 {
		return schema.Location{}, false
	}
	return schema.Location{Latitude: s.Maneuver.Location[1], Longitude: s.Maneuver.Location[0]}, true
}
