package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/robfig/cron/v3"
	"github.com/samber/oops"
)

// Refresher forces a cache refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// Warmer refreshes the cache on a cron schedule so requests rarely wait on upstream
// sources. Its runs coalesce with request-driven refreshes.
type Warmer struct {
	cron    *cron.Cron
	cache   Refresher
	timeout time.Duration
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWarmer schedules refreshes of cache with spec. An empty spec yields a disabled
// warmer whose Start and Stop do nothing.
func NewWarmer(spec string, cache Refresher, timeout time.Duration) (*Warmer, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Warmer{
		cache:   cache,
		timeout: timeout,
		logger:  slog.Default(),
		ctx:     ctx,
		cancel:  cancel,
	}
	if spec == "" {
		return w, nil
	}

	w.cron = cron.New()
	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		cancel()
		return nil, oops.With("refresh_cron", spec).Wrapf(err, "invalid refresh schedule")
	}
	return w, nil
}

// SetLogger sets the logger
func (w *Warmer) SetLogger(logger *slog.Logger) {
	w.logger = logger
}

// Enabled reports whether a schedule is configured.
func (w *Warmer) Enabled() bool {
	return w.cron != nil
}

// Start runs one refresh immediately and then follows the schedule.
func (w *Warmer) Start() {
	if !w.Enabled() {
		return
	}
	w.cron.Start()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run()
	}()
}

// Stop cancels the running refresh and waits for it to return.
func (w *Warmer) Stop() {
	w.cancel()
	if !w.Enabled() {
		return
	}
	<-w.cron.Stop().Done()
	w.wg.Wait()
}

func (w *Warmer) run() {
	if w.ctx.Err() != nil {
		return
	}

	ctx := w.ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(w.ctx, w.timeout)
		defer cancel()
	}

	snap, err := w.cache.Refresh(ctx)
	if err != nil {
		w.logger.Error("Scheduled refresh failed", "error", err)
		return
	}
	w.logger.Debug("Scheduled refresh done", "items", len(snap.Items), "fetched_at", snap.FetchedAt)
}
