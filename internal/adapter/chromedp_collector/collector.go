// Package chromedp_collector loads pages in headless Chrome and captures
// their performance metrics and network resources.
package chromedp_collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

// Time allowed after the load event for late paints and long tasks.
const defaultSettle = 1500 * time.Millisecond

// ChromedpCollector implements repository.Collector. Each collection runs in
// a fresh browser tab; at most maxConcurrency collections run at once.
type ChromedpCollector struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	slots       chan struct{}
	timeout     time.Duration
	settle      time.Duration
	agents      *userAgents
	logger      *zap.Logger
}

// NewChromedpCollector creates a collector backed by a headless Chrome allocator.
func NewChromedpCollector(maxConcurrency int, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpCollector {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpCollector{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		slots:       make(chan struct{}, maxConcurrency),
		timeout:     pageLoadTimeout,
		settle:      defaultSettle,
		agents:      newUserAgents(nil, uint64(time.Now().UnixNano())),
		logger:      logger.Named("collector"),
	}
}

// Close shuts down every browser started by the collector.
func (c *ChromedpCollector) Close() {
	c.allocCancel()
}

// Collect loads pageURL under the throttling preset and returns its metrics
// and resources. The snapshot's session key is left for the caller to set.
func (c *ChromedpCollector) Collect(ctx context.Context, pageURL string, throttling string) (*entity.Snapshot, error) {
	throttle, err := throttleAction(throttling)
	if err != nil {
		return nil, err
	}

	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.slots }()

	taskCtx, cancel := chromedp.NewContext(c.allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()
	// Browser contexts must hang off the allocator, so caller cancellation is forwarded.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	rec := newNetworkRecorder()
	chromedp.ListenTarget(taskCtx, rec.handle)

	setup := chromedp.Tasks{
		network.Enable(),
		throttle,
		emulation.SetUserAgentOverride(c.agents.next()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(observerScript).Do(ctx)
			return err
		}),
	}
	if err := chromedp.Run(taskCtx, setup); err != nil {
		return nil, c.classify(ctx, taskCtx, pageURL, repository.ErrNavigationFailed, err)
	}

	started := time.Now()
	if err := chromedp.Run(taskCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, c.classify(ctx, taskCtx, pageURL, repository.ErrNavigationFailed, err)
	}

	var (
		timings pageTimings
		html    string
	)
	err = chromedp.Run(taskCtx,
		chromedp.Sleep(c.settle),
		chromedp.Evaluate(timingScript, &timings),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, c.classify(ctx, taskCtx, pageURL, repository.ErrMetricsUnavailable, err)
	}

	resources := rec.resources()
	if blocking, err := renderBlockingScripts(pageURL, html); err != nil {
		c.logger.Warn("Failed to parse page HTML for render-blocking hints", zap.String("url", pageURL), zap.Error(err))
	} else {
		applyHints(resources, blocking)
	}

	c.logger.Info("Collected page",
		zap.String("url", pageURL),
		zap.String("throttling", throttling),
		zap.Int("resources", len(resources)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &entity.Snapshot{
		URL:         pageURL,
		Metrics:     buildMetrics(timings, resources),
		Resources:   resources,
		CollectedAt: time.Now().UTC(),
	}, nil
}

// classify wraps a chromedp failure into one of the collector sentinels.
func (c *ChromedpCollector) classify(parent, taskCtx context.Context, pageURL string, fallback, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("collect %s: %w", pageURL, parent.Err())
	}
	if errors.Is(taskCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %s", repository.ErrCollectTimeout, c.timeout, pageURL)
	}
	return fmt.Errorf("%w: %s: %v", fallback, pageURL, err)
}
