package routing

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/werego/werego-api/schema"
)

var (
	// ErrNoRoute - the provider found no drivable route between the endpoints
	ErrNoRoute = fmt.Errorf("%w: no route between origin and destination", schema.ErrValidation)
	// ErrUnknownProvider - the requested provider is not configured
	ErrUnknownProvider = fmt.Errorf("%w: unknown routing provider", schema.ErrValidation)
)

// Provider - a third-party routing service
type Provider interface {
	Name() string
	Route(ctx context.Context, origin, destination schema.Location) (*schema.RouteGeometry, error)
}

// Selector dispatches route requests to the configured providers
type Selector struct {
	providers []Provider
}

func NewSelector(providers ...Provider) *Selector {
	return &Selector{providers: providers}
}

// Names lists the configured providers in preference order
func (s *Selector) Names() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Route asks the named provider for a route. With an empty name the providers
// are tried in order and the first route wins. It returns a nil route without
// error when no provider is configured at all.
func (s *Selector) Route(ctx context.Context, name string, origin, destination schema.Location) (*schema.RouteGeometry, error) {
	if name != "" {
		for _, p := range s.providers {
			if p.Name() == name {
				return p.Route(ctx, origin, destination)
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	if len(s.providers) == 0 {
		return nil, nil
	}

	var lastErr error
	for _, p := range s.providers {
		route, err := p.Route(ctx, origin, destination)
		if err == nil {
			return route, nil
		}
		// an invalid request fails the same way everywhere
		if errors.Is(err, schema.ErrValidation) || ctx.Err() != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"prefix":   "routing",
			"provider": p.Name(),
			"error":    err,
		}).Warn("routing provider failed, trying next one")
		lastErr = err
	}
	return nil, lastErr
}

func latLngString(l schema.Location) string {
	return fmt.Sprintf("%f,%f", l.Latitude, l.Longitude)
}
