package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arencloud/eksapp/internal/config"
	"github.com/arencloud/eksapp/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testGreeting = "orders-api is running!"

type fakeLister struct {
	mu    sync.Mutex
	names []string
	err   error
	calls atomic.Int32
}

func (f *fakeLister) ListBuckets(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.names, f.err
}

func (f *fakeLister) set(names ...string) {
	f.mu.Lock()
	f.names = names
	f.mu.Unlock()
}

// setupTestServer starts the router on a real listener, the way the probes and
// clients reach it in a cluster.
func setupTestServer(t *testing.T, lister BucketLister, collector *metrics.Collector) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Env: "test", Host: "127.0.0.1", Port: "0", Greeting: testGreeting}
	ts := httptest.NewServer(Router(cfg, zap.NewNop(), lister, collector))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestIndexGreeting(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{}, nil)
	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testGreeting, body)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}

func TestProbes(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{}, nil)
	cases := map[string]string{
		"/health": `{"status":"healthy"}`,
		"/ready":  `{"status":"ready"}`,
	}
	for path, want := range cases {
		resp, body := get(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, want, body, path)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"), path)
	}
}

func TestProbesIgnoreStorageOutage(t *testing.T) {
	lister := &fakeLister{err: errors.New("dial tcp: connection refused")}
	ts := setupTestServer(t, lister, nil)
	for _, path := range []string{"/health", "/ready"} {
		resp, _ := get(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	assert.Equal(t, int32(0), lister.calls.Load(), "probes must not call storage")
}

func TestListBuckets(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{names: []string{"a", "b"}}, nil)
	resp, body := get(t, ts.URL+"/s3/buckets")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"buckets":["a","b"]}`, body)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestListBucketsEmpty(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{}, nil)
	resp, body := get(t, ts.URL+"/s3/buckets")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"buckets":[]}`, body)
}

func TestListBucketsError(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{err: errors.New("access denied")}, nil)
	resp, body := get(t, ts.URL+"/s3/buckets")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, `{"error":"access denied"}`, body)
}

func TestListBucketsFetchesEveryTime(t *testing.T) {
	lister := &fakeLister{names: []string{"a"}}
	ts := setupTestServer(t, lister, nil)
	get(t, ts.URL+"/s3/buckets")
	lister.set("a", "c")
	_, body := get(t, ts.URL+"/s3/buckets")
	assert.Equal(t, `{"buckets":["a","c"]}`, body)
	assert.Equal(t, int32(2), lister.calls.Load())
}

func TestUnknownPathAndMethod(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{}, nil)
	resp, _ := get(t, ts.URL+"/s3")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := http.Post(ts.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{err: errors.New("throttled")}, metrics.NewCollector())
	get(t, ts.URL+"/s3/buckets")
	get(t, ts.URL+"/health")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `eksapp_bucket_list_total{result="error"} 1`)
	assert.Contains(t, body, `eksapp_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `eksapp_http_requests_total{method="GET",route="/s3/buckets",status="500"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	ts := setupTestServer(t, &fakeLister{}, nil)
	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsCountRecoveredPanics(t *testing.T) {
	cfg := &config.Config{Env: "test", Host: "127.0.0.1", Port: "0", Greeting: testGreeting}
	engine, ok := Router(cfg, zap.NewNop(), &fakeLister{}, metrics.NewCollector()).(*gin.Engine)
	require.True(t, ok)
	engine.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)

	resp, body := get(t, ts.URL+"/boom")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal error"}`, body)

	_, scrape := get(t, ts.URL+"/metrics")
	assert.Contains(t, scrape, `eksapp_http_requests_total{method="GET",route="/boom",status="500"} 1`)
	assert.Contains(t, scrape, `eksapp_http_request_duration_seconds_count{method="GET",route="/boom"} 1`)
}
