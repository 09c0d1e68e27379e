package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSweep(t *testing.T) {
	successBefore := testutil.ToFloat64(SweepRuns.WithLabelValues("success"))
	errorBefore := testutil.ToFloat64(SweepRuns.WithLabelValues("error"))
	deletedBefore := testutil.ToFloat64(SweepDeleted)

	RecordSweep(4, nil)
	RecordSweep(0, errors.New("mongo unavailable"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(SweepRuns.WithLabelValues("success")))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(SweepRuns.WithLabelValues("error")))
	assert.Equal(t, deletedBefore+4, testutil.ToFloat64(SweepDeleted))
}

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("osrm", "error"))

	RecordProviderRequest("osrm", errors.New("502"))

	assert.Equal(t, before+1, testutil.ToFloat64(ProviderRequests.WithLabelValues("osrm", "error")))
}

func TestRecordCorrelation(t *testing.T) {
	before := testutil.ToFloat64(CongestedSegments)

	RecordCorrelation(25*time.Millisecond, 3)

	assert.Equal(t, before+3, testutil.ToFloat64(CongestedSegments))
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("google", 2)
	assert.Equal(t, float64(2), testutil.ToFloat64(ProviderBreakerState.WithLabelValues("google")))
}
