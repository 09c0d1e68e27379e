package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/schema"
)

const (
	defaultOSRMURL     = "https://router.project-osrm.org"
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"
	defaultRPS         = 1.0

	searchRadiusMeters = 20
	unitKMH            = "km/h"
	unitMPH            = "mph"
	logPrefix          = "overpass"
)

// SpeedLimit - the posted limit of the road nearest to a location
type SpeedLimit struct {
	SpeedLimit *int             `json:"speedLimit"`
	Unit       string           `json:"unit,omitempty"`
	RoadName   string           `json:"roadName,omitempty"`
	Location   schema.Location  `json:"location"`
	Snapped    *schema.Location `json:"snappedLocation,omitempty"`
}

// SpeedLimitLookup - interface to query road speed limits
type SpeedLimitLookup interface {
	SpeedLimit(ctx context.Context, loc schema.Location) (*SpeedLimit, error)
}

type nearestWaypoint struct {
	Name     string    `json:"name"`
	Location []float64 `json:"location"`
}

type nearestResponse struct {
	Code      string            `json:"code"`
	Waypoints []nearestWaypoint `json:"waypoints"`
}

type element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`
}

type interpreterResponse struct {
	Elements []element `json:"elements"`
}

type overpass struct {
	osrmURL     string
	overpassURL string
	client      *http.Client
	limiter     *rate.Limiter
}

// New returns a lookup sharing one rate limit across OSRM and Overpass calls
func New(osrmURL, overpassURL string, rps float64, client *http.Client) SpeedLimitLookup {
	o := defaultOSRMURL
	if osrmURL != "" {
		o = osrmURL
	}
	i := defaultOverpassURL
	if overpassURL != "" {
		i = overpassURL
	}
	if rps <= 0 {
		rps = defaultRPS
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &overpass{
		osrmURL:     o,
		overpassURL: i,
		client:      client,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (o *overpass) SpeedLimit(ctx context.Context, loc schema.Location) (*SpeedLimit, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	result := &SpeedLimit{Location: loc}
	target := loc

	var nearest nearestResponse
	// http://router.project-osrm.org/nearest/v1/driving/2.35,48.85?number=1
	query := fmt.Sprintf("%s/nearest/v1/driving/%f,%f?number=1", o.osrmURL, loc.Longitude, loc.Latitude)
	if err := o.getJSON(ctx, "osrm nearest", query, &nearest); err != nil {
		return nil, err
	}
	if len(nearest.Waypoints) > 0 && len(nearest.Waypoints[0].Location) == 2 {
		w := nearest.Waypoints[0]
		target = schema.Location{Latitude: w.Location[1], Longitude: w.Location[0]}
		result.Snapped = &target
		result.RoadName = w.Name
	}

	var ways interpreterResponse
	data := fmt.Sprintf("[out:json];way(around:%d,%f,%f)[maxspeed];out body;", searchRadiusMeters, target.Latitude, target.Longitude)
	if err := o.getJSON(ctx, "overpass", o.overpassURL+"?data="+url.QueryEscape(data), &ways); err != nil {
		return nil, err
	}

	for _, e := range ways.Elements {
		limit, unit, ok := ParseMaxSpeed(e.Tags["maxspeed"])
		if !ok {
			continue
		}
		result.SpeedLimit = &limit
		result.Unit = unit
		if result.RoadName == "" {
			result.RoadName = e.Tags["name"]
		}
		break
	}

	log.WithFields(log.Fields{
		"prefix":      logPrefix,
		"location":    loc,
		"speed_limit": result.SpeedLimit,
	}).Debug("speed limit lookup")

	return result, nil
}

func (o *overpass) getJSON(ctx context.Context, provider, query string, v interface{}) error {
	// Wait only fails when the context cannot afford the next token
	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %s", external.ErrGatewayTimeout, provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return external.Classify(provider, err)
	}
	defer resp.Body.Close()

	d, err := io.ReadAll(resp.Body)
	if err != nil {
		return external.Classify(provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", external.ErrUpstream, provider, resp.StatusCode)
	}

	if err := json.Unmarshal(d, v); err != nil {
		return fmt.Errorf("%w: %s: %s", external.ErrUpstream, provider, err)
	}
	return nil
}

// ParseMaxSpeed reads an OSM maxspeed tag such as "50", "30 mph" or "50;70".
// Symbolic values like "none" or "walk" have no numeric limit.
func ParseMaxSpeed(tag string) (int, string, bool) {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexByte(tag, ';'); i >= 0 {
		tag = tag[:i]
	}

	unit := unitKMH
	if strings.HasSuffix(tag, unitMPH) {
		unit = unitMPH
		tag = strings.TrimSpace(strings.TrimSuffix(tag, unitMPH))
	}

	limit, err := strconv.Atoi(tag)
	if err != nil || limit <= 0 {
		return 0, "", false
	}
	return limit, unit, true
}
