package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/quantops/internal/report"
)

func newAuditServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAuditSuccess(t *testing.T) {
	var gotPath atomic.Value
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","price":101.25,"pe":18.2,"sec_pe":25,"verdict":"PRIME_VALUE"}`))
	})

	c, err := NewClient(srv.URL+"/", 2*time.Second)
	require.NoError(t, err)

	out, err := c.FetchAudit(context.Background(), "infy")
	require.NoError(t, err)
	assert.Equal(t, "/api/audit/infy", gotPath.Load())

	s, ok := out.(report.Success)
	require.True(t, ok)
	assert.Equal(t, "101.25", s.Result.Price.String())
	assert.True(t, s.Result.IsPrime())
	assert.Equal(t, int64(1), c.Stats().Requests)
}

func TestFetchAuditDecodesErrorStatusBody(t *testing.T) {
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"unknown symbol"}`))
	})

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	out, err := c.FetchAudit(context.Background(), "ZZZZ")
	require.NoError(t, err)
	f, ok := out.(report.Failure)
	require.True(t, ok)
	assert.Equal(t, "unknown symbol", f.Message)
}

func TestFetchAuditMalformedBody(t *testing.T) {
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.FetchAudit(context.Background(), "TCS")
	assert.Error(t, err)
}

func TestFetchAuditGzipBody(t *testing.T) {
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"status":"success","sector":"Energy"}`))
		_ = gz.Close()
	})

	// Disable transparent decompression so the body reaches DecodeResponseBody encoded.
	hc := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	c, err := NewClient(srv.URL, time.Second, WithHTTPClient(hc))
	require.NoError(t, err)

	out, err := c.FetchAudit(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, "Energy", out.(report.Success).Result.Sector)
}

func TestFetchAuditOfflineBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base, time.Second)
	require.NoError(t, err)

	_, err = c.FetchAudit(context.Background(), "TCS")
	assert.Error(t, err)
	assert.Equal(t, int64(1), c.Stats().Failures)
}

func TestFetchAuditEmptyTicker(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:8000", time.Second)
	require.NoError(t, err)

	_, err = c.FetchAudit(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTicker)
	assert.Equal(t, int64(0), c.Stats().Requests)
}

func TestRequestBudget(t *testing.T) {
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	c, err := NewClient(srv.URL, time.Second, WithRequestBudget(1))
	require.NoError(t, err)

	_, err = c.FetchAudit(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.RemainingBudget())

	_, err = c.FetchAudit(context.Background(), "TCS")
	assert.True(t, errors.Is(err, ErrRequestBudgetExceeded), "got %v", err)
}

func TestRedirectOffHostBlocked(t *testing.T) {
	other := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	srv := newAuditServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+r.URL.Path, http.StatusFound)
	})

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.FetchAudit(context.Background(), "TCS")
	assert.Error(t, err)
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient("ftp://127.0.0.1", time.Second)
	assert.Error(t, err)
	_, err = NewClient("http://", time.Second)
	assert.Error(t, err)
}

func TestAuditURLKeepsPrefixAndEscapes(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:8000/bridge/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/bridge/api/audit/M%20M", c.AuditURL("M M"))
	assert.Equal(t, "http://127.0.0.1:8000/bridge/api/audit/A%2FB", c.AuditURL("A/B"))
}
