// Package assetstest serves an in-memory asset tree through httpmock.
package assetstest

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/config"

	"github.com/jarcoal/httpmock"
)

const BaseURL = "http://assets.test/products"

// Tree maps asset paths relative to BaseURL (e.g. "shoes/1/name.txt") to their content.
type Tree map[string]string

type Server struct {
	Transport *httpmock.MockTransport
	Client    client.AssetClient
	Metrics   *client.Metrics

	counter *countingTransport
}

// countingTransport counts every request, including those answered by the no-responder.
type countingTransport struct {
	next http.RoundTripper

	mu       sync.Mutex
	total    int
	byMethod map[string]int
	byPath   map[string]int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.total++
	c.byMethod[req.Method]++
	c.byPath[strings.TrimPrefix(req.URL.String(), BaseURL+"/")]++
	c.mu.Unlock()
	return c.next.RoundTrip(req)
}

// New registers every file of tree for GET and HEAD. Unknown paths answer 404.
func New(t testing.TB, tree Tree, mutate ...func(*config.AssetsConfig)) *Server {
	t.Helper()

	transport := httpmock.NewMockTransport()
	transport.RegisterNoResponder(httpmock.NewStringResponder(http.StatusNotFound, "not found"))
	for path, body := range tree {
		Serve(transport, path, body)
	}

	cfg := config.Default().Assets
	cfg.BaseURL = BaseURL
	for _, m := range mutate {
		m(&cfg)
	}

	counter := &countingTransport{
		next:     transport,
		byMethod: make(map[string]int),
		byPath:   make(map[string]int),
	}
	metrics := client.NewMetrics()
	assetClient := client.NewAssetClient(cfg, nil, metrics, client.WithTransport(counter))
	t.Cleanup(func() {
		_ = assetClient.Close()
	})

	return &Server{
		Transport: transport,
		Client:    assetClient,
		Metrics:   metrics,
		counter:   counter,
	}
}

// Serve adds or replaces one file.
func Serve(transport *httpmock.MockTransport, path, body string) {
	url := BaseURL + "/" + strings.TrimPrefix(path, "/")
	transport.RegisterResponder(http.MethodGet, url, httpmock.NewStringResponder(http.StatusOK, body))
	transport.RegisterResponder(http.MethodHead, url, httpmock.NewStringResponder(http.StatusOK, ""))
}

// Fail makes every request for path fail with a connection error.
func (s *Server) Fail(path string) {
	url := BaseURL + "/" + strings.TrimPrefix(path, "/")
	failure := httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	s.Transport.RegisterResponder(http.MethodGet, url, failure)
	s.Transport.RegisterResponder(http.MethodHead, url, failure)
}

// Calls returns how many requests reached the transport.
func (s *Server) Calls() int {
	s.counter.mu.Lock()
	defer s.counter.mu.Unlock()
	return s.counter.total
}

// MethodCalls returns how many requests used method.
func (s *Server) MethodCalls(method string) int {
	s.counter.mu.Lock()
	defer s.counter.mu.Unlock()
	return s.counter.byMethod[method]
}

// PathCalls returns how many requests of any method targeted path.
func (s *Server) PathCalls(path string) int {
	s.counter.mu.Lock()
	defer s.counter.mu.Unlock()
	return s.counter.byPath[strings.TrimPrefix(path, "/")]
}

// URL returns the absolute URL of path.
func URL(path string) string {
	return BaseURL + "/" + strings.TrimPrefix(path, "/")
}
