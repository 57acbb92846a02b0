package engine

import (
	"net/http"
	"sync/atomic"
	"time"
)

// MetricsTransport counts audit requests, transport failures and cumulative latency.
type MetricsTransport struct {
	Base      http.RoundTripper
	requests  int64
	failures  int64
	durationN int64
}

func (t *MetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	atomic.AddInt64(&t.requests, 1)
	if err != nil {
		atomic.AddInt64(&t.failures, 1)
	}
	atomic.AddInt64(&t.durationN, time.Since(start).Nanoseconds())
	return resp, err
}

type Stats struct {
	Requests int64
	Failures int64
	Elapsed  time.Duration
}

func (t *MetricsTransport) Snapshot() Stats {
	return Stats{
		Requests: atomic.LoadInt64(&t.requests),
		Failures: atomic.LoadInt64(&t.failures),
		Elapsed:  time.Duration(atomic.LoadInt64(&t.durationN)),
	}
}
