package feed

import (
	"context"
	"io"
	"strings"
	"sync"

	"feedbot-core/core/domain"
	"feedbot-core/core/interfaces"
)

// nopLogger discards all log output
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// mockResponse implements interfaces.Response over a string body
type mockResponse struct {
	status  int
	body    string
	headers map[string]string
}

func (r *mockResponse) StatusCode() int { return r.status }

func (r *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(r.body))
}

func (r *mockResponse) Header(key string) string { return r.headers[key] }

// mockHTTPClient returns scripted results per call
type mockHTTPClient struct {
	mu      sync.Mutex
	closed  bool
	calls   int
	getFunc func(call int, url string) (interfaces.Response, error)
}

func (c *mockHTTPClient) Get(_ context.Context, url string) (interfaces.Response, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()
	return c.getFunc(call, url)
}

func (c *mockHTTPClient) Post(_ context.Context, _ string, _ io.Reader) (interfaces.Response, error) {
	return nil, io.EOF
}

func (c *mockHTTPClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *mockHTTPClient) setClosed(closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = closed
}

func (c *mockHTTPClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// mockNotifier delivers messages to a channel so tests can wait on the
// fire-and-forget notification goroutine
type mockNotifier struct {
	received chan string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{received: make(chan string, 10)}
}

func (n *mockNotifier) Notify(_ context.Context, message string) error {
	n.received <- message
	return nil
}

// mockContentExtractor returns a fixed article
type mockContentExtractor struct {
	article *interfaces.ArticleContent
	err     error
	calls   int
}

func (m *mockContentExtractor) Extract(_ context.Context, _ string) (*interfaces.ArticleContent, error) {
	m.calls++
	return m.article, m.err
}

// mockColorService returns a fixed color for every image
type mockColorService struct {
	color *domain.RGBColor
}

func (m *mockColorService) ExtractColor(_ context.Context, _ string) (*domain.RGBColor, error) {
	return m.color, nil
}

func (m *mockColorService) ExtractColorBatch(_ context.Context, urls []string) map[string]*domain.RGBColor {
	out := make(map[string]*domain.RGBColor, len(urls))
	for _, u := range urls {
		out[u] = m.color
	}
	return out
}

func testDeps(client *mockHTTPClient) interfaces.Dependencies {
	return interfaces.Dependencies{
		HTTPClient: client,
		Logger:     nopLogger{},
	}
}
