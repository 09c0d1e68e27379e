package schema

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseReportType(t *testing.T) {
	for _, rt := range ReportTypes {
		parsed, err := ParseReportType(string(rt))
		assert.NoError(t, err)
		assert.Equal(t, rt, parsed)
	}

	for _, s := range []string{"", "accident", "Traffic_Jam", "DANGER", " POLICE"} {
		_, err := ParseReportType(s)
		assert.True(t, errors.Is(err, ErrValidation), "expected validation error for %q", s)
	}
}

func TestNewReport(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 30, 0, 123456789, time.FixedZone("CET", 3600))
	loc := Location{Latitude: 48.8566, Longitude: 2.3522}

	report, err := NewReport(ReportTypeTrafficJam, loc, now)
	assert.NoError(t, err)
	assert.False(t, report.ID.IsZero())
	assert.Equal(t, ReportTypeTrafficJam, report.Type)
	assert.Equal(t, 0, report.Upvotes)
	assert.Equal(t, loc, report.Position())
	assert.Equal(t, []float64{2.3522, 48.8566}, report.Location.Coordinates)
	assert.Equal(t, time.UTC, report.CreatedAt.Location())
	assert.True(t, report.CreatedAt.Equal(now.Truncate(time.Millisecond)))
}

func TestNewReportRejectsInput(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		reportType ReportType
		loc        Location
	}{
		{"unknown type", ReportType("UFO"), Location{Latitude: 1, Longitude: 1}},
		{"latitude too high", ReportTypeAccident, Location{Latitude: 90.1, Longitude: 1}},
		{"latitude too low", ReportTypeAccident, Location{Latitude: -90.1, Longitude: 1}},
		{"longitude too high", ReportTypeAccident, Location{Latitude: 1, Longitude: 180.5}},
		{"longitude too low", ReportTypeAccident, Location{Latitude: 1, Longitude: -181}},
		{"not a number", ReportTypeAccident, Location{Latitude: math.NaN(), Longitude: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewReport(tt.reportType, tt.loc, now)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestReportExpiredAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	report := Report{CreatedAt: created}

	assert.False(t, report.ExpiredAt(created.Add(9*time.Minute), 10*time.Minute))
	assert.True(t, report.ExpiredAt(created.Add(10*time.Minute), 10*time.Minute))
	assert.True(t, report.ExpiredAt(created.Add(time.Hour), 10*time.Minute))
}

func TestLocationBoundaries(t *testing.T) {
	for _, loc := range []Location{
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 0, Longitude: 0},
	} {
		assert.NoError(t, loc.Validate())
	}
}

func TestGeoJSONMalformedPoint(t *testing.T) {
	assert.Equal(t, Location{}, GeoJSON{Type: "Point"}.Location())
}

func TestBounds(t *testing.T) {
	b := Bounds{
		SouthWest: Location{Latitude: 48.8, Longitude: 2.3},
		NorthEast: Location{Latitude: 48.9, Longitude: 2.4},
	}
	assert.NoError(t, b.Validate())
	assert.True(t, b.Contains(Location{Latitude: 48.85, Longitude: 2.35}))
	assert.False(t, b.Contains(Location{Latitude: 48.95, Longitude: 2.35}))
	assert.False(t, b.Contains(Location{Latitude: 48.85, Longitude: 2.45}))

	inverted := Bounds{SouthWest: b.NorthEast, NorthEast: b.SouthWest}
	assert.ErrorIs(t, inverted.Validate(), ErrValidation)
}

func TestBoundsAcrossAntimeridian(t *testing.T) {
	b := Bounds{
		SouthWest: Location{Latitude: -20, Longitude: 170},
		NorthEast: Location{Latitude: -10, Longitude: -170},
	}
	assert.True(t, b.Contains(Location{Latitude: -15, Longitude: 179}))
	assert.True(t, b.Contains(Location{Latitude: -15, Longitude: -175}))
	assert.False(t, b.Contains(Location{Latitude: -15, Longitude: 0}))
}

func TestRouteGeometryPath(t *testing.T) {
	a := Location{Latitude: 1, Longitude: 1}
	b := Location{Latitude: 2, Longitude: 2}
	c := Location{Latitude: 3, Longitude: 3}

	withSteps := RouteGeometry{
		Steps:  []RouteStep{{Start: a, End: b}, {Start: b, End: c}},
		Points: []Location{a, c},
	}
	assert.Equal(t, []Location{a, b, c}, withSteps.Path())

	pointsOnly := RouteGeometry{Points: []Location{a, c}}
	assert.Equal(t, []Location{a, c}, pointsOnly.Path())
}
