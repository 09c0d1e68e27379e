package schema

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation is wrapped by every input validation failure
var ErrValidation = errors.New("invalid parameters")

// Location - a WGS84 coordinate as exchanged with clients
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Validate checks the coordinate ranges
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return fmt.Errorf("%w: coordinate is not a number", ErrValidation)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrValidation, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrValidation, l.Longitude)
	}
	return nil
}

// GeoJSON returns the mongo point representation of the location
func (l Location) GeoJSON() GeoJSON {
	return GeoJSON{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// GeoJSON - mongo location format, coordinates are [longitude, latitude]
type GeoJSON struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// Location converts a stored point back to a Location.
// A malformed point yields the zero location.
func (g GeoJSON) Location() Location {
	if len(g.Coordinates) < 2 {
		return Location{}
	}
	return Location{
		Latitude:  g.Coordinates[1],
		Longitude: g.Coordinates[0],
	}
}

// Bounds - an axis aligned lat/lng box
type Bounds struct {
	SouthWest Location `json:"sw"`
	NorthEast Location `json:"ne"`
}

// Validate checks both corners and their ordering
func (b Bounds) Validate() error {
	if err := b.SouthWest.Validate(); err != nil {
		return err
	}
	if err := b.NorthEast.Validate(); err != nil {
		return err
	}
	if b.SouthWest.Latitude > b.NorthEast.Latitude {
		return fmt.Errorf("%w: south-west latitude is above north-east latitude", ErrValidation)
	}
	return nil
}

// Contains reports whether the location lies inside the box.
// A box whose west edge is east of its east edge crosses the antimeridian.
func (b Bounds) Contains(l Location) bool {
	if l.Latitude < b.SouthWest.Latitude || l.Latitude > b.NorthEast.Latitude {
		return false
	}
	if b.SouthWest.Longitude <= b.NorthEast.Longitude {
		return l.Longitude >= b.SouthWest.Longitude && l.Longitude <= b.NorthEast.Longitude
	}
	return l.Longitude >= b.SouthWest.Longitude || l.Longitude <= b.NorthEast.Longitude
}
