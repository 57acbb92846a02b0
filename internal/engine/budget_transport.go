package engine

import (
	"errors"
	"net/http"
	"sync/atomic"
)

var ErrRequestBudgetExceeded = errors.New("request budget exceeded")

// RequestBudgetTransport caps the audits one watch session may send. Max 0 is unlimited.
type RequestBudgetTransport struct {
	Base      http.RoundTripper
	Max       int64
	requested int64
}

func (t *RequestBudgetTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := atomic.AddInt64(&t.requested, 1)
	if t.Max > 0 && next > t.Max {
		atomic.AddInt64(&t.requested, -1)
		return nil, ErrRequestBudgetExceeded
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// Remaining reports how many requests are left, or -1 when unlimited.
func (t *RequestBudgetTransport) Remaining() int64 {
	if t.Max <= 0 {
		return -1
	}
	left := t.Max - atomic.LoadInt64(&t.requested)
	if left < 0 {
		return 0
	}
	return left
}
