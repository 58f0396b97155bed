// Package toolstest provides a fake ZBD API and helpers for testing tool
// packages end to end through the dispatcher.
package toolstest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/dispatch"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/zbd"
)

// Request is one call received by the fake backend.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Backend is a fake ZBD API that answers every request with a fixed
// status and body.
type Backend struct {
	mu       sync.Mutex
	requests []Request
	status   int
	response string
}

// RegisterFunc matches the RegisterXTools function of each tool package.
type RegisterFunc func(b *registry.Builder, sc *server.ServerContext, readOnly bool) error

// Env is a dispatcher wired to a fake backend.
type Env struct {
	Backend    *Backend
	Context    *server.ServerContext
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
}

// New registers tools against a fake backend answering {"success":true}.
func New(t *testing.T, register RegisterFunc, readOnly bool) *Env {
	return NewWithResponse(t, register, readOnly, http.StatusOK, `{"success":true}`)
}

// NewWithResponse is New with a custom backend answer.
func NewWithResponse(t *testing.T, register RegisterFunc, readOnly bool, status int, response string) *Env {
	t.Helper()

	backend := &Backend{status: status, response: response}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := zbd.NewClient(zbd.Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	sc := server.NewServerContext(context.Background(), client, server.WithReadOnly(readOnly))
	t.Cleanup(func() { _ = sc.Shutdown() })

	b := registry.NewBuilder()
	require.NoError(t, register(b, sc, readOnly))
	reg := b.Build()

	d := dispatch.New(reg)
	sc.SetDispatcher(d)

	return &Env{Backend: backend, Context: sc, Registry: reg, Dispatcher: d}
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.EscapedPath()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	_, _ = w.Write([]byte(b.response))
}

// Requests returns a copy of the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Invoke calls the tool through the dispatcher.
func (e *Env) Invoke(t *testing.T, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	return e.Dispatcher.Invoke(context.Background(), name, args)
}

// Text returns the single text block of result.
func Text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}
