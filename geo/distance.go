package geo

import (
	"math"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/schema"
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance in meters between two points on
// a spherical earth.
func Haversine(a, b schema.Location) float64 {
	phi1 := toRadians(a.Latitude)
	phi2 := toRadians(b.Latitude)
	dPhi := toRadians(b.Latitude - a.Latitude)
	dLambda := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return consts.EarthRadiusMeters * c
}

// PointToSegmentDistance returns the distance in meters from p to the segment
// [start, end]. The three points are projected onto a plane tangent at the
// segment midpoint latitude (equirectangular), so the result is only a city
// scale approximation: error grows with segments longer than a few kilometers
// and near the poles.
func PointToSegmentDistance(p, start, end schema.Location) float64 {
	refLat := toRadians((start.Latitude + end.Latitude) / 2)
	project := func(l schema.Location) (float64, float64) {
		dLng := l.Longitude - start.Longitude
		// take the short way around the antimeridian
		if dLng > 180 {
			dLng -= 360
		} else if dLng < -180 {
			dLng += 360
		}
		x := toRadians(dLng) * math.Cos(refLat) * consts.EarthRadiusMeters
		y := toRadians(l.Latitude-start.Latitude) * consts.EarthRadiusMeters
		return x, y
	}

	px, py := project(p)
	ex, ey := project(end)

	lengthSq := ex*ex + ey*ey
	if lengthSq == 0 {
		return math.Hypot(px, py)
	}

	t := (px*ex + py*ey) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return math.Hypot(px-t*ex, py-t*ey)
}

// InterpolatePath returns steps+1 points evenly spaced in lat/lng space from
// origin to destination, both included. It is a stand-in geometry for when no
// routing provider result is available.
func InterpolatePath(origin, destination schema.Location, steps int) []schema.Location {
	if steps < 1 {
		steps = 1
	}

	path := make([]schema.Location, 0, steps+1)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		path = append(path, schema.Location{
			Latitude:  origin.Latitude + (destination.Latitude-origin.Latitude)*f,
			Longitude: origin.Longitude + (destination.Longitude-origin.Longitude)*f,
		})
	}
	path[steps] = destination
	return path
}

// PathLength sums the haversine length of consecutive points
func PathLength(path []schema.Location) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1], path[i])
	}
	return total
}
