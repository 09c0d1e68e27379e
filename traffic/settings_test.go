package traffic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/werego/werego-api/schema"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.Equal(t, 10*time.Minute, s.ReportTTL)
	assert.Equal(t, 100.0, s.ClusterMergeRadius)
	assert.Equal(t, 10, s.ClusterMinSize)
	assert.Equal(t, 1000.0, s.SegmentRadius)
	assert.Equal(t, 10, s.SegmentMinReports)
	assert.Equal(t, 10, s.SegmentSteps)
	assert.Equal(t, 30.0, s.AverageSpeedKMH)
}

func TestSettingsValidate(t *testing.T) {
	cases := map[string]func(*Settings){
		"zero ttl":            func(s *Settings) { s.ReportTTL = 0 },
		"negative radius":     func(s *Settings) { s.ClusterMergeRadius = -1 },
		"zero min size":       func(s *Settings) { s.ClusterMinSize = 0 },
		"zero segment radius": func(s *Settings) { s.SegmentRadius = 0 },
		"zero steps":          func(s *Settings) { s.SegmentSteps = 0 },
		"zero speed":          func(s *Settings) { s.AverageSpeedKMH = 0 },
		"unknown search mode": func(s *Settings) { s.SearchMode = "everywhere" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), schema.ErrValidation)
		})
	}
}
