package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyCloser struct{ closed int }

func (c *spyCloser) Close() error {
	c.closed++
	return nil
}

func TestRunReturnsAuditErrorAndClosesLog(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := filepath.Join(t.TempDir(), "quantops.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+base+"\nlog_file: \"\"\n"), 0o644))

	spy := &spyCloser{}
	prev := setupLogging
	setupLogging = func(level, file string) (io.Closer, error) { return spy, nil }
	t.Cleanup(func() { setupLogging = prev })

	err := run([]string{"--config", cfg, "INFY"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "audit failed")
	assert.Equal(t, 1, spy.closed)
	assert.Nil(t, logCloser)
}
