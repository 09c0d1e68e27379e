package consts

import "time"

// Default values of the tunables exposed through configuration
const (
	DefaultReportTTL          = 10 * time.Minute
	DefaultArchiveTTL         = 24 * time.Hour
	DefaultReportSearchRadius = 5000.0 // meters

	DefaultClusterMergeRadius = 100.0 // meters
	DefaultClusterMinSize     = 10
	DefaultBoundsMinReports   = 5

	DefaultSegmentRadius     = 1000.0 // meters
	DefaultSegmentMinReports = 10
	DefaultSegmentSteps      = 10

	DefaultAverageSpeedKMH = 30.0

	DefaultSweepInterval   = 60 * time.Second
	DefaultExternalTimeout = 30 * time.Second
	DefaultStoreTimeout    = 5 * time.Second

	EarthRadiusMeters = 6371000.0
)

// Route search modes for the correlator
const (
	SearchModeOrigin = "origin"
	SearchModeRoute  = "route"
)
