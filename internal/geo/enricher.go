package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"munch/internal/logging"
)

// ErrAlreadyRan is returned by every Detect call after the first.
var ErrAlreadyRan = errors.New("geo: detection already ran this session")

// Resolver turns coordinates into a place name.
type Resolver interface {
	Reverse(ctx context.Context, p Coordinates) (string, error)
}

// Enricher runs city detection at most once per session. Every failure is
// terminal and silent: callers only learn "no city".
type Enricher struct {
	source   PositionSource
	resolver Resolver
	timeout  time.Duration

	once sync.Once
}

// NewEnricher wires a position source to a resolver. timeout bounds the whole
// detection; zero means none.
func NewEnricher(source PositionSource, resolver Resolver, timeout time.Duration) *Enricher {
	if source == nil {
		source = Disabled{}
	}
	return &Enricher{source: source, resolver: resolver, timeout: timeout}
}

// Detect senses the position and resolves it. Only the first call does any work.
func (e *Enricher) Detect(ctx context.Context) (place string, err error) {
	err = ErrAlreadyRan
	e.once.Do(func() {
		place, err = e.detect(ctx)
	})
	if err != nil && !errors.Is(err, ErrAlreadyRan) {
		logging.GeoDebug("city detection gave up: %v", err)
	}
	return place, err
}

func (e *Enricher) detect(ctx context.Context) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	pos, err := e.source.Position(ctx)
	if err != nil {
		return "", err
	}
	if e.resolver == nil {
		return "", ErrUnavailable
	}

	place, err := e.resolver.Reverse(ctx, pos)
	if err != nil {
		return "", err
	}
	logging.Geo("detected city %q", place)
	return place, nil
}
