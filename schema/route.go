package schema

// RouteStep - one leg of a provider route between two coordinates
type RouteStep struct {
	Start           Location `json:"start"`
	End             Location `json:"end"`
	DistanceMeters  float64  `json:"distance"`
	DurationSeconds float64  `json:"duration"`
}

// RouteGeometry - a drivable route as returned by a routing provider
type RouteGeometry struct {
	Provider                 string      `json:"provider"`
	Points                   []Location  `json:"points,omitempty"`
	Steps                    []RouteStep `json:"steps,omitempty"`
	DistanceMeters           float64     `json:"distance"`
	DurationSeconds          float64     `json:"duration"`
	DurationInTrafficSeconds float64     `json:"durationInTraffic,omitempty"`
	StartAddress             string      `json:"startAddress,omitempty"`
	EndAddress               string      `json:"endAddress,omitempty"`
	Polyline                 string      `json:"polyline,omitempty"`
}

// Path returns the ordered coordinates of the route, preferring the step
// boundaries and falling back to the raw points.
func (r RouteGeometry) Path() []Location {
	if len(r.Steps) > 0 {
		path := make([]Location, 0, len(r.Steps)+1)
		for _, s := range r.Steps {
			path = append(path, s.Start)
		}
		return append(path, r.Steps[len(r.Steps)-1].End)
	}
	return r.Points
}
