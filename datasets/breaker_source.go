package datasets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// BreakerSource stops loading from a failing source for a cool-down period. While the
// breaker is open every Load fails at once without reaching the wrapped source.
type BreakerSource struct {
	source  Source
	breaker *gobreaker.CircuitBreaker[Dataset]
}

var _ Source = (*BreakerSource)(nil)

// BreakerSettings configures a BreakerSource
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32        // Failures in a row that open the breaker
	OpenTimeout         time.Duration // How long the breaker stays open
}

func NewBreakerSource(source Source, settings BreakerSettings) *BreakerSource {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 20 * time.Second
	}
	if settings.Name == "" {
		settings.Name = "datasets"
	}

	return &BreakerSource{
		source: source,
		breaker: gobreaker.NewCircuitBreaker[Dataset](gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: 1,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
			},
			IsSuccessful: func(err error) bool {
				// A caller giving up says nothing about the source
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Dataset source breaker changed state")
			},
		}),
	}
}

func (s *BreakerSource) Load(ctx context.Context, locator string) (Dataset, error) {
	dataset, err := s.breaker.Execute(func() (Dataset, error) {
		return s.source.Load(ctx, locator)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return dataset, err
}

// State reports the breaker state, e.g. "closed" or "open"
func (s *BreakerSource) State() string {
	return s.breaker.State().String()
}
