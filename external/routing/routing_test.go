package routing_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/external/routing"
	"github.com/werego/werego-api/schema"
)

var (
	paris      = schema.Location{Latitude: 48.8566, Longitude: 2.3522}
	middle     = schema.Location{Latitude: 48.83, Longitude: 2.24}
	versailles = schema.Location{Latitude: 48.8049, Longitude: 2.1204}
)

func encodedPath() string {
	return maps.Encode([]maps.LatLng{
		{Lat: paris.Latitude, Lng: paris.Longitude},
		{Lat: middle.Latitude, Lng: middle.Longitude},
		{Lat: versailles.Latitude, Lng: versailles.Longitude},
	})
}

func googleServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newGoogle(t *testing.T, url string) *routing.GoogleDirections {
	g, err := routing.NewGoogleDirections("test-key", maps.WithBaseURL(url))
	assert.NoError(t, err)
	return g
}

func TestGoogleDirections(t *testing.T) {
	body := fmt.Sprintf(`{
		"status": "OK",
		"routes": [{
			"overview_polyline": {"points": %q},
			"legs": [{
				"start_address": "Paris, France",
				"end_address": "Versailles, France",
				"distance": {"text": "19.7 km", "value": 19700},
				"duration": {"text": "29 mins", "value": 1740},
				"duration_in_traffic": {"text": "35 mins", "value": 2100},
				"steps": [
					{
						"distance": {"text": "9.5 km", "value": 9500},
						"duration": {"text": "14 mins", "value": 840},
						"start_location": {"lat": 48.8566, "lng": 2.3522},
						"end_location": {"lat": 48.83, "lng": 2.24}
					},
					{
						"distance": {"text": "10.2 km", "value": 10200},
						"duration": {"text": "15 mins", "value": 900},
						"start_location": {"lat": 48.83, "lng": 2.24},
						"end_location": {"lat": 48.8049, "lng": 2.1204}
					}
				]
			}]
		}]
	}`, encodedPath())
	ts := googleServer(t, http.StatusOK, body)
	defer ts.Close()

	route, err := newGoogle(t, ts.URL).Route(context.Background(), paris, versailles)
	assert.NoError(t, err)
	assert.Equal(t, routing.GoogleProviderName, route.Provider)
	assert.Equal(t, 19700.0, route.DistanceMeters)
	assert.Equal(t, 1740.0, route.DurationSeconds)
	assert.Equal(t, 2100.0, route.DurationInTrafficSeconds)
	assert.Equal(t, "Paris, France", route.StartAddress)
	assert.Equal(t, "Versailles, France", route.EndAddress)
	assert.Len(t, route.Steps, 2)
	assert.Equal(t, schema.RouteStep{Start: paris, End: middle, DistanceMeters: 9500, DurationSeconds: 840}, route.Steps[0])
	assert.Len(t, route.Points, 3)
	assert.InDelta(t, versailles.Latitude, route.Points[2].Latitude, 0.00001)
}

func TestGoogleDirectionsZeroResults(t *testing.T) {
	ts := googleServer(t, http.StatusOK, `{"status": "ZERO_RESULTS", "routes": []}`)
	defer ts.Close()

	_, err := newGoogle(t, ts.URL).Route(context.Background(), paris, versailles)
	assert.ErrorIs(t, err, routing.ErrNoRoute)
	assert.ErrorIs(t, err, schema.ErrValidation)
}

func TestGoogleDirectionsFailures(t *testing.T) {
	cases := map[string]*httptest.Server{
		"server error":   googleServer(t, http.StatusInternalServerError, "<html>oops</html>"),
		"request denied": googleServer(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "bad key"}`),
	}

	for name, ts := range cases {
		t.Run(name, func(t *testing.T) {
			defer ts.Close()

			_, err := newGoogle(t, ts.URL).Route(context.Background(), paris, versailles)
			assert.ErrorIs(t, err, external.ErrUpstream)
			assert.NotErrorIs(t, err, external.ErrGatewayTimeout)
		})
	}
}

func TestGoogleDirectionsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": "OK", "routes": []}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newGoogle(t, ts.URL).Route(ctx, paris, versailles)
	assert.ErrorIs(t, err, external.ErrGatewayTimeout)
}

func TestOSRM(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/driving/2.352200,48.856600;2.120400,48.804900", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("steps"))
		_, _ = fmt.Fprintf(w, `{
			"code": "Ok",
			"routes": [{
				"distance": 19650.4,
				"duration": 1820.7,
				"geometry": %q,
				"legs": [{
					"steps": [
						{"distance": 9400, "duration": 850, "maneuver": {"location": [2.3522, 48.8566]}},
						{"distance": 10250.4, "duration": 970.7, "maneuver": {"location": [2.24, 48.83]}},
						{"distance": 0, "duration": 0, "maneuver": {"location": [2.1204, 48.8049]}}
					]
				}]
			}]
		}`, encodedPath())
	}))
	defer ts.Close()

	route, err := routing.NewOSRM(ts.URL, nil).Route(context.Background(), paris, versailles)
	assert.NoError(t, err)
	assert.Equal(t, routing.OSRMProviderName, route.Provider)
	assert.Equal(t, 19650.4, route.DistanceMeters)
	assert.Equal(t, 1820.7, route.DurationSeconds)
	assert.Zero(t, route.DurationInTrafficSeconds)
	assert.Len(t, route.Points, 3)
	assert.Equal(t, []schema.RouteStep{
		{Start: paris, End: middle, DistanceMeters: 9400, DurationSeconds: 850},
		{Start: middle, End: versailles, DistanceMeters: 10250.4, DurationSeconds: 970.7},
	}, route.Steps)
}

func TestOSRMNoRoute(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": "NoRoute", "message": "Impossible route between points"}`))
	}))
	defer ts.Close()

	_, err := routing.NewOSRM(ts.URL, nil).Route(context.Background(), paris, versailles)
	assert.ErrorIs(t, err, routing.ErrNoRoute)
}

func TestOSRMUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream connect error"))
	}))
	defer ts.Close()

	_, err := routing.NewOSRM(ts.URL, nil).Route(context.Background(), paris, versailles)
	assert.ErrorIs(t, err, external.ErrUpstream)
}

type stubProvider struct {
	name  string
	route *schema.RouteGeometry
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Route(_ context.Context, _, _ schema.Location) (*schema.RouteGeometry, error) {
	s.calls++
	return s.route, s.err
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubProvider{name: "flaky", err: fmt.Errorf("%w: boom", external.ErrUpstream)}
	settings := routing.DefaultBreakerSettings()
	settings.Timeout = time.Hour
	b := routing.NewBreakerProvider(stub, settings)

	for i := 0; i < int(settings.MinRequests); i++ {
		_, err := b.Route(context.Background(), paris, versailles)
		assert.ErrorIs(t, err, external.ErrUpstream)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Route(context.Background(), paris, versailles)
	assert.ErrorIs(t, err, external.ErrUpstream)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int(settings.MinRequests), stub.calls)
}

func TestBreakerIgnoresRejectedInput(t *testing.T) {
	stub := &stubProvider{name: "strict", err: routing.ErrNoRoute}
	settings := routing.DefaultBreakerSettings()
	b := routing.NewBreakerProvider(stub, settings)

	for i := 0; i < int(settings.MinRequests)*2; i++ {
		_, err := b.Route(context.Background(), paris, versailles)
		assert.ErrorIs(t, err, routing.ErrNoRoute)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestSelector(t *testing.T) {
	route := &schema.RouteGeometry{Provider: "backup"}
	failing := &stubProvider{name: "primary", err: errors.New("connection refused")}
	backup := &stubProvider{name: "backup", route: route}
	s := routing.NewSelector(failing, backup)

	assert.Equal(t, []string{"primary", "backup"}, s.Names())

	actual, err := s.Route(context.Background(), "", paris, versailles)
	assert.NoError(t, err)
	assert.Equal(t, route, actual)
	assert.Equal(t, 1, failing.calls)

	_, err = s.Route(context.Background(), "primary", paris, versailles)
	assert.EqualError(t, err, "connection refused")

	_, err = s.Route(context.Background(), "waze", paris, versailles)
	assert.ErrorIs(t, err, routing.ErrUnknownProvider)
}

func TestSelectorStopsOnRejectedInput(t *testing.T) {
	first := &stubProvider{name: "first", err: routing.ErrNoRoute}
	second := &stubProvider{name: "second", route: &schema.RouteGeometry{}}

	_, err := routing.NewSelector(first, second).Route(context.Background(), "", paris, versailles)
	assert.ErrorIs(t, err, routing.ErrNoRoute)
	assert.Equal(t, 0, second.calls)
}

func TestSelectorWithoutProviders(t *testing.T) {
	route, err := routing.NewSelector().Route(context.Background(), "", paris, versailles)
	assert.NoError(t, err)
	assert.Nil(t, route)
}
