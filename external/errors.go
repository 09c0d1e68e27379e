package external

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUpstream - a third-party provider answered with a failure
	ErrUpstream = errors.New("upstream provider failure")
	// ErrGatewayTimeout - a third-party provider did not answer in time
	ErrGatewayTimeout = errors.New("upstream provider timeout")
)

// Classify wraps a provider call failure into ErrGatewayTimeout or ErrUpstream
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstream) || errors.Is(err, ErrGatewayTimeout) {
		return err
	}
	if IsTimeout(err) {
		return fmt.Errorf("%w: %s: %s", ErrGatewayTimeout, provider, err)
	}
	return fmt.Errorf("%w: %s: %s", ErrUpstream, provider, err)
}

// IsTimeout reports whether err comes from an expired deadline
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
