package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	sourceDomain "github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func item(title, url string, age time.Duration, label string) domain.Item {
	return domain.NewItem(title, url, base.Add(-age), label)
}

func src(name string) sourceDomain.SourceConfig {
	return sourceDomain.SourceConfig{Name: name, Kind: sourceDomain.SourceKindRss, URL: "https://" + name + ".example.com/feed"}
}

// fakeFetcher serves canned items per source name.
type fakeFetcher struct {
	items   map[string][]domain.Item
	errs    map[string]error
	delays  map[string]time.Duration
	missing map[string]bool
	calls   atomic.Int32
}

func (f *fakeFetcher) Validate(s sourceDomain.SourceConfig) error {
	if f.missing[s.Name] {
		return &errors.ConfigurationError{Source: s.Name, Setting: "token"}
	}
	return nil
}

func (f *fakeFetcher) Fetch(ctx context.Context, s sourceDomain.SourceConfig) ([]domain.Item, error) {
	f.calls.Add(1)
	if d := f.delays[s.Name]; d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[s.Name]; err != nil {
		return nil, err
	}
	return f.items[s.Name], nil
}

// fakeSource returns queued aggregations, repeating the last one.
type fakeSource struct {
	mu      sync.Mutex
	results []*domain.Aggregation
	err     error
	invalid error
	gate    chan struct{}
	calls   atomic.Int32
}

func (s *fakeSource) Validate() error {
	return s.invalid
}

func (s *fakeSource) Aggregate(ctx context.Context) (*domain.Aggregation, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return &domain.Aggregation{Items: []domain.Item{}}, nil
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res, nil
}

func (s *fakeSource) push(items ...domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, &domain.Aggregation{Items: items})
}

func (s *fakeSource) setEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = []*domain.Aggregation{{Items: []domain.Item{}}}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
