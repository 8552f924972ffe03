package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WorkerPool runs a fixed number of goroutines that drain the collection queue.
type WorkerPool struct {
	worker       CollectorWorker
	workers      int
	pollInterval time.Duration
	jobTimeout   time.Duration
	logger       *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool creates a pool. Idle workers sleep pollInterval between polls;
// each job gets jobTimeout.
func NewWorkerPool(worker CollectorWorker, workers int, pollInterval, jobTimeout time.Duration, logger *zap.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &WorkerPool{
		worker:       worker,
		workers:      workers,
		pollInterval: pollInterval,
		jobTimeout:   jobTimeout,
		logger:       logger.Named("worker_pool"),
		stopChan:     make(chan struct{}),
	}
}

// Start launches the workers. They exit when ctx is cancelled or Stop is called.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("Starting collection workers", zap.Int("workers", p.workers))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Stop signals every worker and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
	p.logger.Info("Collection workers stopped")
}

func (p *WorkerPool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.logger.With(zap.Int("worker", id))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		processed, err := p.processOne(ctx)
		if err != nil {
			log.Error("Error processing collection job", zap.Error(err))
		}
		if processed && err == nil {
			timer.Reset(0)
		} else {
			timer.Reset(p.pollInterval)
		}
	}
}

func (p *WorkerPool) processOne(ctx context.Context) (bool, error) {
	jobCtx := ctx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}
	return p.worker.ProcessNext(jobCtx)
}
