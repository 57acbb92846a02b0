package engine

import (
	"fmt"
	"net/http"
	"strings"
)

// HostBoundaryTransport blocks requests (including redirect hops) that leave the API host.
type HostBoundaryTransport struct {
	Base        http.RoundTripper
	AllowedHost string
}

func (t *HostBoundaryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := strings.ToLower(req.URL.Host)
	if host == "" {
		return nil, fmt.Errorf("blocked request: empty host")
	}
	if t.AllowedHost != "" && host != strings.ToLower(t.AllowedHost) {
		return nil, fmt.Errorf("blocked request outside audit API host: %s", host)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
