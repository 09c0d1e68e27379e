package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/werego/werego-api/external"
	"github.com/werego/werego-api/metrics"
	"github.com/werego/werego-api/schema"
)

// BreakerSettings tunes the circuit breaker placed in front of a provider
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// BreakerProvider stops calling a provider that keeps failing and
// answers with ErrUpstream until it recovers.
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[*schema.RouteGeometry]
}

func NewBreakerProvider(provider Provider, settings BreakerSettings) *BreakerProvider {
	name := provider.Name()
	metrics.SetBreakerState(name, stateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[*schema.RouteGeometry](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"prefix":   "routing",
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("circuit breaker state changed")
			metrics.SetBreakerState(name, stateValue(to))
		},
		// rejected input says nothing about the health of the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, schema.ErrValidation)
		},
	})

	return &BreakerProvider{
		provider: provider,
		cb:       cb,
	}
}

func (b *BreakerProvider) Name() string {
	return b.provider.Name()
}

func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerProvider) Route(ctx context.Context, origin, destination schema.Location) (*schema.RouteGeometry, error) {
	route, err := b.cb.Execute(func() (*schema.RouteGeometry, error) {
		return b.provider.Route(ctx, origin, destination)
	})
	metrics.RecordProviderRequest(b.provider.Name(), err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", external.ErrUpstream, b.provider.Name(), err)
	}
	return route, err
}

func stateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
