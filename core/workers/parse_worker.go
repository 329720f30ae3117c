// ABOUTME: Parse worker pool keeps CPU-bound feed parsing off the fetch goroutines
// ABOUTME: Provides a managed pool with a bounded queue and graceful shutdown

package workers

import (
	"context"
	"sync"
	"time"

	"feedbot-core/core/feed"
)

// parseJob carries one payload through the pool
type parseJob struct {
	raw       []byte
	sourceURL string
	ctx       context.Context
	resultCh  chan *feed.FetchResult
}

// ParseWorker manages background feed parsing
type ParseWorker struct {
	parser   *feed.SafeParser
	jobQueue chan *parseJob
	workers  int
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
}

// WorkerConfig holds configuration for the parse worker pool
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
}

// DefaultWorkerConfig returns the default pool configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 4,
		QueueSize:  64,
	}
}

// NewParseWorker creates a parse worker pool around parser
func NewParseWorker(parser *feed.SafeParser, config WorkerConfig) *ParseWorker {
	ctx, cancel := context.WithCancel(context.Background())

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkerConfig().MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerConfig().QueueSize
	}

	return &ParseWorker{
		parser:   parser,
		jobQueue: make(chan *parseJob, config.QueueSize),
		workers:  config.MaxWorkers,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the worker goroutines
func (pw *ParseWorker) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return nil
	}

	for i := 0; i < pw.workers; i++ {
		pw.wg.Add(1)
		go pw.run()
	}

	pw.running = true
	return nil
}

// Stop stops the pool gracefully, waiting for in-flight jobs. The queue
// channel is never closed so a concurrent Dispatch cannot send on a closed
// channel; dispatchers in flight are released through the pool context.
func (pw *ParseWorker) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	pw.cancel()
	pw.wg.Wait()

	pw.running = false
	return nil
}

// Dispatch parses raw on a pool worker and blocks until the result is
// ready or ctx is done. Implements the fetcher's ParseDispatcher contract.
func (pw *ParseWorker) Dispatch(ctx context.Context, raw []byte, sourceURL string) (*feed.FetchResult, error) {
	pw.mu.Lock()
	if !pw.running {
		pw.mu.Unlock()
		return nil, ErrWorkerNotRunning
	}
	pw.mu.Unlock()

	job := &parseJob{
		raw:       raw,
		sourceURL: sourceURL,
		ctx:       ctx,
		resultCh:  make(chan *feed.FetchResult, 1),
	}

	select {
	case pw.jobQueue <- job:
	case <-pw.ctx.Done():
		return nil, ErrWorkerNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, ErrQueueFull
	}

	select {
	case result := <-job.resultCh:
		return result, nil
	case <-pw.ctx.Done():
		return nil, ErrWorkerNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run is the main loop for each worker
func (pw *ParseWorker) run() {
	defer pw.wg.Done()

	for {
		select {
		case job := <-pw.jobQueue:
			pw.process(job)
		case <-pw.ctx.Done():
			return
		}
	}
}

// process parses one payload and delivers the result
func (pw *ParseWorker) process(job *parseJob) {
	result := pw.parser.Parse(job.raw, job.sourceURL)
	select {
	case job.resultCh <- result:
	case <-job.ctx.Done():
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "parse worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "parse job queue is full"}
)

// WorkerError represents a pool-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
