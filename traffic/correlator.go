package traffic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/geo"
	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/schema"
	"github.com/werego/werego-api/store"
)

var (
	// ErrInvalidInput - origin or destination is not a valid coordinate
	ErrInvalidInput = fmt.Errorf("%w: invalid route endpoints", schema.ErrValidation)
	// ErrReportFetch - active reports could not be loaded for the route
	ErrReportFetch = errors.New("unable to load reports for route")
)

// RouteRequest - input of a correlation. A nil Route falls back to a straight
// interpolated path, a nil Reports slice is fetched from the finder.
type RouteRequest struct {
	Origin      schema.Location
	Destination schema.Location
	Route       *schema.RouteGeometry
	Reports     []schema.Report
}

type RouteSegment struct {
	Start           schema.Location `json:"start"`
	End             schema.Location `json:"end"`
	DistanceMeters  float64         `json:"distance"`
	DurationSeconds float64         `json:"duration"`
	NearbyReports   []schema.Report `json:"reports"`
	HasTrafficIssue bool            `json:"hasTrafficIssue"`

	// polyline the provider drew between Start and End, if any
	path []schema.Location
}

// distanceTo measures how far l lies from the road of the segment, following
// its polyline when one is known.
func (s RouteSegment) distanceTo(l schema.Location) float64 {
	if len(s.path) < 2 {
		return geo.PointToSegmentDistance(l, s.Start, s.End)
	}

	d := math.Inf(1)
	for i := 0; i+1 < len(s.path); i++ {
		d = math.Min(d, geo.PointToSegmentDistance(l, s.path[i], s.path[i+1]))
	}
	return d
}

type Summary struct {
	DistanceMeters           float64 `json:"distance"`
	DurationSeconds          float64 `json:"duration"`
	DurationInTrafficSeconds float64 `json:"durationInTraffic,omitempty"`
	HasTrafficIssues         bool    `json:"hasTrafficIssues"`
	Provider                 string  `json:"provider,omitempty"`
	StartAddress             string  `json:"startAddress,omitempty"`
	EndAddress               string  `json:"endAddress,omitempty"`
}

type RouteTrafficSummary struct {
	Summary         Summary        `json:"summary"`
	Segments        []RouteSegment `json:"segments"`
	TrafficClusters []Cluster      `json:"trafficClusters"`
}

// Correlator overlays active reports onto a route
type Correlator struct {
	finder   store.ReportFinder
	settings Settings
	now      func() time.Time
}

func NewCorrelator(finder store.ReportFinder, settings Settings) *Correlator {
	return &Correlator{
		finder:   finder,
		settings: settings,
		now:      time.Now,
	}
}

func (c *Correlator) Settings() Settings {
	return c.settings
}

// Correlate splits the route into segments, attaches the reports lying close to
// each segment and flags the segments holding enough of them.
func (c *Correlator) Correlate(ctx context.Context, req RouteRequest) (*RouteTrafficSummary, error) {
	start := time.Now()

	if err := req.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("%w: origin: %s", ErrInvalidInput, err)
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, fmt.Errorf("%w: destination: %s", ErrInvalidInput, err)
	}

	segments := c.buildSegments(req)

	reports := req.Reports
	if reports == nil {
		fetched, err := c.fetchReports(ctx, req, segments)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReportFetch, err)
		}
		reports = fetched
	}
	reports = c.activeReports(reports)

	hasIssues := false
	congested := 0
	for i := range segments {
		s := &segments[i]
		s.NearbyReports = make([]schema.Report, 0)
		for _, r := range reports {
			if s.distanceTo(r.Position()) < c.settings.SegmentRadius {
				s.NearbyReports = append(s.NearbyReports, r)
			}
		}
		if len(s.NearbyReports) >= c.settings.SegmentMinReports {
			s.HasTrafficIssue = true
			hasIssues = true
			congested++
		}
	}

	summary := c.summarize(req, segments)
	summary.HasTrafficIssues = hasIssues

	metrics.RecordCorrelation(time.Since(start), congested)
	log.WithFields(log.Fields{
		"prefix":    "correlator",
		"segments":  len(segments),
		"reports":   len(reports),
		"congested": congested,
	}).Debug("route correlated")

	return &RouteTrafficSummary{
		Summary:         summary,
		Segments:        segments,
		TrafficClusters: StripInsignificant(ClusterReports(reports, c.settings.ClusterOptions())),
	}, nil
}

func (c *Correlator) buildSegments(req RouteRequest) []RouteSegment {
	if req.Route != nil && len(req.Route.Steps) > 0 {
		paths := stepPaths(req.Route.Steps, req.Route.Points)
		segments := make([]RouteSegment, 0, len(req.Route.Steps))
		for i, step := range req.Route.Steps {
			segments = append(segments, RouteSegment{
				Start:           step.Start,
				End:             step.End,
				DistanceMeters:  step.DistanceMeters,
				DurationSeconds: step.DurationSeconds,
				path:            paths[i],
			})
		}
		return segments
	}

	var path []schema.Location
	if req.Route != nil && len(req.Route.Points) >= 2 {
		path = req.Route.Path()
	} else {
		path = geo.InterpolatePath(req.Origin, req.Destination, c.settings.SegmentSteps)
	}

	// spread a known provider duration over the points proportionally to distance
	var secondsPerMeter float64
	if req.Route != nil && req.Route.DurationSeconds > 0 {
		if total := geo.PathLength(path); total > 0 {
			secondsPerMeter = req.Route.DurationSeconds / total
		}
	}

	segments := make([]RouteSegment, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		d := geo.Haversine(path[i], path[i+1])
		duration := c.estimateDuration(d)
		if secondsPerMeter > 0 {
			duration = d * secondsPerMeter
		}
		segments = append(segments, RouteSegment{
			Start:           path[i],
			End:             path[i+1],
			DistanceMeters:  d,
			DurationSeconds: duration,
		})
	}
	return segments
}

func (c *Correlator) fetchReports(ctx context.Context, req RouteRequest, segments []RouteSegment) ([]schema.Report, error) {
	if c.settings.SearchMode == consts.SearchModeOrigin {
		return c.finder.FindNear(ctx, req.Origin, c.settings.SearchRadius, true)
	}

	path := make([]schema.Location, 0, len(segments)+1)
	for _, s := range segments {
		path = append(path, s.Start)
		path = append(path, s.path...)
	}
	if len(segments) > 0 {
		path = append(path, segments[len(segments)-1].End)
	}
	return c.finder.FindWithin(ctx, geo.BoundingRect(path, c.settings.SegmentRadius), true)
}

// stepPaths cuts the route polyline at the points closest to each step
// boundary. Every path starts and ends on its step's own endpoints.
func stepPaths(steps []schema.RouteStep, points []schema.Location) [][]schema.Location {
	paths := make([][]schema.Location, len(steps))
	if len(points) == 0 {
		return paths
	}

	cursor := 0
	for i, step := range steps {
		from := nearestIndex(points, cursor, step.Start)
		to := nearestIndex(points, from, step.End)

		path := make([]schema.Location, 0, to-from+3)
		path = append(path, step.Start)
		path = append(path, points[from:to+1]...)
		paths[i] = append(path, step.End)
		cursor = to
	}
	return paths
}

// nearestIndex returns the index of the point closest to l, searching from start on
func nearestIndex(points []schema.Location, start int, l schema.Location) int {
	best, bestDistance := start, math.Inf(1)
	for i := start; i < len(points); i++ {
		if d := geo.Haversine(points[i], l); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best
}

// activeReports hides reports whose TTL elapsed, caller supplied ones included
func (c *Correlator) activeReports(reports []schema.Report) []schema.Report {
	now := c.now()
	active := make([]schema.Report, 0, len(reports))
	for _, r := range reports {
		if !r.ExpiredAt(now, c.settings.ReportTTL) {
			active = append(active, r)
		}
	}
	return active
}

func (c *Correlator) summarize(req RouteRequest, segments []RouteSegment) Summary {
	if req.Route != nil && (len(req.Route.Steps) > 0 || len(req.Route.Points) >= 2) {
		s := Summary{
			DistanceMeters:           req.Route.DistanceMeters,
			DurationSeconds:          req.Route.DurationSeconds,
			DurationInTrafficSeconds: req.Route.DurationInTrafficSeconds,
			Provider:                 req.Route.Provider,
			StartAddress:             req.Route.StartAddress,
			EndAddress:               req.Route.EndAddress,
		}
		if s.DistanceMeters <= 0 {
			for _, seg := range segments {
				s.DistanceMeters += seg.DistanceMeters
			}
		}
		if s.DurationSeconds <= 0 {
			for _, seg := range segments {
				s.DurationSeconds += seg.DurationSeconds
			}
		}
		return s
	}

	distance := geo.Haversine(req.Origin, req.Destination)
	return Summary{
		DistanceMeters:  distance,
		DurationSeconds: math.Round(c.estimateDuration(distance)),
	}
}

func (c *Correlator) estimateDuration(meters float64) float64 {
	return meters / 1000 / c.settings.AverageSpeedKMH * 3600
}
