package signin

import (
	"sync"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
)

// AttemptGuard admits one outstanding sign-in attempt per key.
type AttemptGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewAttemptGuard() *AttemptGuard {
	return &AttemptGuard{inFlight: make(map[string]struct{})}
}

// Begin marks key as in flight and returns the function that ends the attempt.
// ErrAttemptInFlight is returned while an earlier attempt for key is outstanding.
func (g *AttemptGuard) Begin(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, apperrors.ErrAttemptInFlight
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}
