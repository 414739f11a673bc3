package sourcefake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jrsteele09/delivery-signin/datasets"
)

var _ datasets.Source = (*FakeSource)(nil)

// FakeSource serves datasets from memory and counts loads per locator.
type FakeSource struct {
	lock   sync.Mutex
	bodies map[string]string
	errs   map[string]error
	loads  map[string]int
	block  chan struct{}
}

func NewFakeSource() *FakeSource {
	return &FakeSource{
		bodies: make(map[string]string),
		errs:   make(map[string]error),
		loads:  make(map[string]int),
	}
}

// Put stores the JSON body returned for locator.
func (s *FakeSource) Put(locator, body string) *FakeSource {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.bodies[locator] = body
	delete(s.errs, locator)
	return s
}

// Fail makes every load of locator return err.
func (s *FakeSource) Fail(locator string, err error) *FakeSource {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.errs[locator] = err
	return s
}

// Block holds every load until the returned release function is called or the load's
// context ends.
func (s *FakeSource) Block() (release func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	ch := make(chan struct{})
	s.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Loads returns how many times locator was loaded.
func (s *FakeSource) Loads(locator string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.loads[locator]
}

// TotalLoads returns the number of loads across all locators.
func (s *FakeSource) TotalLoads() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	total := 0
	for _, n := range s.loads {
		total += n
	}
	return total
}

func (s *FakeSource) Load(ctx context.Context, locator string) (datasets.Dataset, error) {
	s.lock.Lock()
	s.loads[locator]++
	block := s.block
	body, hasBody := s.bodies[locator]
	err := s.errs[locator]
	s.lock.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, &datasets.StatusError{Locator: locator, StatusCode: 404}
	}
	dataset, err := datasets.Decode(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return dataset, nil
}
