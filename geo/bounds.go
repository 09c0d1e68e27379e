package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/schema"
)

// BoundingRect returns the smallest lat/lng box holding every point, grown by
// bufferMeters on each side. A box s2 reports as crossing the antimeridian is
// widened to the full longitude range.
func BoundingRect(points []schema.Location, bufferMeters float64) schema.Bounds {
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}
	if rect.IsEmpty() {
		return schema.Bounds{}
	}

	latMargin := s1.Angle(bufferMeters / consts.EarthRadiusMeters)
	maxLat := math.Max(math.Abs(rect.Lat.Lo), math.Abs(rect.Lat.Hi)) + float64(latMargin)
	lngMargin := s1.Angle(math.Pi)
	if maxLat < math.Pi/2 {
		lngMargin = s1.Angle(math.Min(math.Pi, float64(latMargin)/math.Cos(maxLat)))
	}
	// Same as the unexported s2.Rect.expanded.
	expLat := rect.Lat.Expanded(latMargin.Radians())
	expLng := rect.Lng.Expanded(lngMargin.Radians())
	if expLat.IsEmpty() || expLng.IsEmpty() {
		rect = s2.EmptyRect()
	} else {
		rect = s2.Rect{
			Lat: expLat.Intersection(r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}),
			Lng: expLng,
		}
	}

	bounds := schema.Bounds{
		SouthWest: schema.Location{
			Latitude:  rect.Lo().Lat.Degrees(),
			Longitude: rect.Lo().Lng.Degrees(),
		},
		NorthEast: schema.Location{
			Latitude:  rect.Hi().Lat.Degrees(),
			Longitude: rect.Hi().Lng.Degrees(),
		},
	}

	if rect.Lng.IsFull() || rect.Lng.IsInverted() {
		bounds.SouthWest.Longitude = -180
		bounds.NorthEast.Longitude = 180
	}

	return bounds
}
