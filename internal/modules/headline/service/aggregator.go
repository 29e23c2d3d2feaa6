package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"slices"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	sourceDomain "github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxItems bounds an aggregation result.
const DefaultMaxItems = 30

// Fetcher reads a single source. The adapter registry implements it.
type Fetcher interface {
	Validate(src sourceDomain.SourceConfig) error
	Fetch(ctx context.Context, src sourceDomain.SourceConfig) ([]domain.Item, error)
}

// Aggregator fans out to every configured source and merges the results.
type Aggregator struct {
	sources  []sourceDomain.SourceConfig
	fetcher  Fetcher
	maxItems int
	logger   *slog.Logger
}

// NewAggregator creates an aggregator over sources. A non-positive maxItems selects
// DefaultMaxItems.
func NewAggregator(sources []sourceDomain.SourceConfig, fetcher Fetcher, maxItems int) *Aggregator {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Aggregator{
		sources:  slices.Clone(sources),
		fetcher:  fetcher,
		maxItems: maxItems,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (a *Aggregator) SetLogger(logger *slog.Logger) {
	a.logger = logger
}

// Validate returns every configuration-class problem across all sources.
func (a *Aggregator) Validate() error {
	errs := lo.FilterMap(a.sources, func(src sourceDomain.SourceConfig, _ int) (error, bool) {
		err := a.fetcher.Validate(src)
		return err, err != nil
	})
	return stderrors.Join(errs...)
}

// Aggregate fetches all sources concurrently and waits for every one of them. Source
// failures are logged and reported in the result; only configuration problems are
// returned as an error.
func (a *Aggregator) Aggregate(ctx context.Context) (*domain.Aggregation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	type sourceResult struct {
		items []domain.Item
		err   error
	}

	// One slot per source keeps the merge order tied to configuration order.
	results := make([]sourceResult, len(a.sources))
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			items, err := a.fetcher.Fetch(ctx, src)
			results[i] = sourceResult{items: items, err: err}
			return nil
		})
	}
	_ = g.Wait()

	agg := &domain.Aggregation{}
	batches := make([][]domain.Item, 0, len(results))
	for i, res := range results {
		name := a.sources[i].DisplayName()
		if res.err != nil {
			a.logger.Warn("Source unavailable", "source", name, "error", res.err)
			agg.Failures = append(agg.Failures, domain.SourceFailure{Source: name, Err: res.err})
			continue
		}
		a.logger.Debug("Source fetched", "source", name, "items", len(res.items))
		batches = append(batches, res.items)
	}

	agg.Items = Merge(batches, a.maxItems)
	return agg, nil
}

// Merge concatenates batches in order, drops items without a URL, keeps the first
// item seen for each URL, orders by recency and truncates to limit.
func Merge(batches [][]domain.Item, limit int) []domain.Item {
	items := lo.Filter(lo.Flatten(batches), func(it domain.Item, _ int) bool {
		return it.URL != ""
	})
	items = lo.UniqBy(items, func(it domain.Item) string {
		return it.URL
	})
	slices.SortStableFunc(items, domain.Newer)

	if limit > 0 && len(items) > limit {
		items = slices.Clip(items[:limit])
	}
	return items
}
