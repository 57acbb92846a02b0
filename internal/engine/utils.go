package engine

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
)

const maxDecodedBodyBytes = 1 << 20 // audit payloads are a few KiB

// DecodeResponseBody reads a possibly gzip-encoded body, capped at maxDecodedBodyBytes.
// An oversized body is cut short, which then fails JSON decoding.
func DecodeResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer r.Close()
		reader = r
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(reader, maxDecodedBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) > maxDecodedBodyBytes {
		bodyBytes = bodyBytes[:maxDecodedBodyBytes]
	}
	return bodyBytes, nil
}
