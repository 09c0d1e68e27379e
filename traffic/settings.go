package traffic

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/werego/werego-api/consts"
	"github.com/werego/werego-api/schema"
)

// Settings holds every tunable of the clustering and correlation pipeline
type Settings struct {
	ReportTTL    time.Duration `validate:"gt=0"`
	SearchRadius float64       `validate:"gt=0"`
	SearchMode   string        `validate:"oneof=origin route"`

	ClusterMergeRadius float64 `validate:"gt=0"`
	ClusterMinSize     int     `validate:"gte=1"`

	SegmentRadius     float64 `validate:"gt=0"`
	SegmentMinReports int     `validate:"gte=1"`
	SegmentSteps      int     `validate:"gte=1,lte=1000"`

	AverageSpeedKMH float64 `validate:"gt=0"`
}

var settingsValidator = validator.New()

// DefaultSettings returns the documented defaults
func DefaultSettings() Settings {
	return Settings{
		ReportTTL:          consts.DefaultReportTTL,
		SearchRadius:       consts.DefaultReportSearchRadius,
		SearchMode:         consts.SearchModeRoute,
		ClusterMergeRadius: consts.DefaultClusterMergeRadius,
		ClusterMinSize:     consts.DefaultClusterMinSize,
		SegmentRadius:      consts.DefaultSegmentRadius,
		SegmentMinReports:  consts.DefaultSegmentMinReports,
		SegmentSteps:       consts.DefaultSegmentSteps,
		AverageSpeedKMH:    consts.DefaultAverageSpeedKMH,
	}
}

// Validate rejects non-positive thresholds and unknown search modes
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: traffic settings: %s", schema.ErrValidation, err)
	}
	return nil
}

// ClusterOptions returns the clustering parameters of the settings
func (s Settings) ClusterOptions() ClusterOptions {
	return ClusterOptions{
		MergeRadius: s.ClusterMergeRadius,
		MinSize:     s.ClusterMinSize,
	}
}
