package background

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
)

// NewSupervisor builds the root supervisor of the process. Services added to
// it are restarted with backoff when they fail and stopped when the context
// given to Serve is cancelled.
func NewSupervisor(name string, shutdownTimeout time.Duration) *suture.Supervisor {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return suture.New(name, suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          shutdownTimeout,
	})
}

func logEvent(e suture.Event) {
	entry := log.WithField("prefix", "supervisor").WithFields(log.Fields(e.Map()))

	switch e.Type() {
	case suture.EventTypeServicePanic, suture.EventTypeStopTimeout:
		entry.Error(e.String())
	case suture.EventTypeServiceTerminate, suture.EventTypeBackoff:
		entry.Warn(e.String())
	default:
		entry.Info(e.String())
	}
}
