package workers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"feedbot-core/core/feed"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

const sampleRSS = `<rss version="2.0"><channel><title>T</title>
<item><title>One</title><guid>g1</guid></item>
</channel></rss>`

func newStartedPool(t *testing.T) *ParseWorker {
	t.Helper()
	pool := NewParseWorker(feed.NewSafeParser(nopLogger{}), DefaultWorkerConfig())
	if err := pool.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { pool.Stop() })
	return pool
}

func TestParseWorker_Dispatch(t *testing.T) {
	pool := newStartedPool(t)

	result, err := pool.Dispatch(context.Background(), []byte(sampleRSS), "https://example.com/rss")

	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result == nil || len(result.Feed.Items) != 1 {
		t.Fatalf("Dispatch result = %+v, want one item", result)
	}
}

func TestParseWorker_DispatchUnparseable(t *testing.T) {
	pool := newStartedPool(t)

	result, err := pool.Dispatch(context.Background(), []byte("garbage {{{"), "u")

	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if result != nil {
		t.Errorf("Dispatch = %+v, want nil result for unparseable payload", result)
	}
}

func TestParseWorker_NotRunning(t *testing.T) {
	pool := NewParseWorker(feed.NewSafeParser(nopLogger{}), DefaultWorkerConfig())

	if _, err := pool.Dispatch(context.Background(), []byte(sampleRSS), "u"); err != ErrWorkerNotRunning {
		t.Errorf("Dispatch error = %v, want ErrWorkerNotRunning", err)
	}
}

func TestParseWorker_ConcurrentDispatch(t *testing.T) {
	pool := newStartedPool(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := fmt.Sprintf(`<rss version="2.0"><channel><title>T</title><item><title>n%d</title><guid>g%d</guid></item></channel></rss>`, i, i)
			result, err := pool.Dispatch(context.Background(), []byte(payload), "u")
			if err != nil {
				errs <- err
				return
			}
			if result == nil || len(result.Feed.Items) != 1 {
				errs <- fmt.Errorf("job %d: unexpected result %+v", i, result)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestParseWorker_DispatchDuringStop(t *testing.T) {
	pool := NewParseWorker(feed.NewSafeParser(nopLogger{}), WorkerConfig{MaxWorkers: 2, QueueSize: 1})
	if err := pool.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			// a dispatch racing Stop must never panic: it either parses
			// or reports the pool as stopped
			result, err := pool.Dispatch(context.Background(), []byte(sampleRSS), "u")
			if err == nil && result == nil {
				t.Error("Dispatch returned no result and no error")
			}
			if err != nil && err != ErrWorkerNotRunning && err != ErrQueueFull {
				t.Errorf("Dispatch error = %v", err)
			}
		}()
	}

	close(start)
	if err := pool.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	wg.Wait()
}

func TestParseWorker_StartStopIdempotent(t *testing.T) {
	pool := NewParseWorker(feed.NewSafeParser(nopLogger{}), WorkerConfig{MaxWorkers: 2, QueueSize: 4})

	if err := pool.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := pool.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if err := pool.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := pool.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
