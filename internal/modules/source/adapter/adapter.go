// Package adapter reads individual upstream sources and normalizes their entries
// into headline items.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	headline "github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
)

const (
	defaultLimit    = 30
	defaultTimeout  = 10 * time.Second
	defaultBackoff  = 500 * time.Millisecond
	maxResponseSize = 4 << 20
)

// Adapter fetches one kind of source.
type Adapter interface {
	Kind() domain.SourceKind
	// Validate reports configuration-class problems without touching the network.
	Validate(src domain.SourceConfig) error
	// Fetch returns the normalized items of src. Failures are *errors.SourceError.
	Fetch(ctx context.Context, src domain.SourceConfig) ([]headline.Item, error)
}

// HTTPClient allows injecting a custom transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures an adapter.
type Option func(*settings)

type settings struct {
	client  HTTPClient
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		client:  &http.Client{Timeout: defaultTimeout},
		retries: 1,
		backoff: defaultBackoff,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithHTTPClient sets the client used for upstream requests.
func WithHTTPClient(client HTTPClient) Option {
	return func(s *settings) {
		s.client = client
	}
}

// WithTimeout replaces the client with one bounded by d.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// WithRetries sets how many extra attempts follow a transport error or 5xx.
func WithRetries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackoff sets the base delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(s *settings) {
		s.backoff = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Registry resolves adapters by source kind.
type Registry struct {
	adapters map[domain.SourceKind]Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.SourceKind]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Kind()] = a
	}
	return r
}

// NewDefaultRegistry registers every built-in adapter with shared options.
func NewDefaultRegistry(opts ...Option) *Registry {
	return NewRegistry(NewMiniflux(opts...), NewRSS(opts...))
}

// Lookup returns the adapter for src or a configuration error if none handles it.
func (r *Registry) Lookup(src domain.SourceConfig) (Adapter, error) {
	a, ok := r.adapters[src.Kind]
	if !ok {
		return nil, &errors.ConfigurationError{
			Source:  src.DisplayName(),
			Setting: "kind",
			Hint:    fmt.Sprintf("source %q: unsupported kind %q", src.DisplayName(), src.Kind),
		}
	}
	return a, nil
}

// Validate checks src against its adapter.
func (r *Registry) Validate(src domain.SourceConfig) error {
	a, err := r.Lookup(src)
	if err != nil {
		return err
	}
	return a.Validate(src)
}

// Fetch reads src through its adapter.
func (r *Registry) Fetch(ctx context.Context, src domain.SourceConfig) ([]headline.Item, error) {
	a, err := r.Lookup(src)
	if err != nil {
		return nil, err
	}
	return a.Fetch(ctx, src)
}

func limitFor(src domain.SourceConfig) int {
	if src.Limit > 0 {
		return src.Limit
	}
	return defaultLimit
}
