package interactive

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/quantops/internal/config"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
)

func TestLineEditorTypingAndSubmit(t *testing.T) {
	e := &lineEditor{}
	action, _ := e.feed([]byte("infy"))
	assert.Equal(t, actNone, action)
	assert.Equal(t, "INFY", e.display())

	action, line := e.feed([]byte("\r"))
	assert.Equal(t, actSubmit, action)
	assert.Equal(t, "infy", line)
	assert.Equal(t, "", e.display())
}

func TestLineEditorCursorAndBackspace(t *testing.T) {
	e := &lineEditor{}
	e.feed([]byte("tcx"))
	e.feed([]byte{27, 91, 68}) // left
	assert.Equal(t, 1, e.cursorBack())
	e.feed([]byte{127})
	e.feed([]byte("s"))
	e.feed([]byte{27, 91, 67}) // right
	assert.Equal(t, 0, e.cursorBack())
	assert.Equal(t, "TSX", e.display())
}

func TestLineEditorHistory(t *testing.T) {
	e := &lineEditor{}
	e.feed([]byte("infy\r"))
	e.feed([]byte("tcs\r"))

	e.feed([]byte{27, 91, 65}) // up
	assert.Equal(t, "TCS", e.display())
	e.feed([]byte{27, 91, 65})
	assert.Equal(t, "INFY", e.display())
	e.feed([]byte{27, 91, 66}) // down
	assert.Equal(t, "TCS", e.display())
	e.feed([]byte{27, 91, 66})
	assert.Equal(t, "", e.display())
}

func TestLineEditorControlKeys(t *testing.T) {
	e := &lineEditor{}
	action, _ := e.feed([]byte{9})
	assert.Equal(t, actToggle, action)
	action, _ = e.feed([]byte{3})
	assert.Equal(t, actInterrupt, action)
}

type recordingNotifier struct{ n int32 }

func (r *recordingNotifier) Notify(string) { atomic.AddInt32(&r.n, 1) }

func newTestShell(t *testing.T, handler http.HandlerFunc) (*Shell, *bytes.Buffer, *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := config.DefaultSettings()
	s.BaseURL = srv.URL
	s.RateLimit = 0
	out := &bytes.Buffer{}
	n := &recordingNotifier{}
	sh, err := NewShell(s, n, out)
	require.NoError(t, err)
	sh.outputDir = t.TempDir()
	return sh, out, n
}

func successHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"status":"success","sector":"Energy","price":2901.4,"pe":24,"sec_pe":12,
		"volume":"9","mcap":"1964000 CR","f_score":5,"short_res":2950,"short_piv":2900,"short_sup":2850,
		"long_res":3200,"long_piv":3000,"long_sup":2700,"verdict":"AVOID","advice":"Overpriced."}`))
}

func TestShellBareTickerRunsAudit(t *testing.T) {
	sh, out, n := newTestShell(t, successHandler)

	assert.False(t, sh.Execute(context.Background(), "reliance"))
	snap := sh.Snapshot()
	require.Equal(t, panel.StateShowingResults, snap.State())
	assert.Equal(t, "RELIANCE", snap.Ticker)
	assert.Contains(t, out.String(), "2901.4")
	assert.Contains(t, out.String(), "OVER-VALUED")
	assert.Equal(t, int32(0), atomic.LoadInt32(&n.n))
}

func TestShellToggleAndModeCommand(t *testing.T) {
	sh, out, _ := newTestShell(t, successHandler)
	sh.Execute(context.Background(), "RELIANCE")
	out.Reset()

	assert.Equal(t, report.ModeLong, sh.ToggleMode())
	assert.Contains(t, out.String(), "[MONTHLY]")
	assert.Contains(t, out.String(), "3200")

	out.Reset()
	sh.Execute(context.Background(), "mode short")
	assert.Equal(t, report.ModeShort, sh.Snapshot().Mode)
	assert.Contains(t, out.String(), "[DAILY]")

	out.Reset()
	sh.Execute(context.Background(), "mode weekly")
	assert.Equal(t, report.ModeShort, sh.Snapshot().Mode)
}

func TestShellOfflineNotifiesAndKeepsPanel(t *testing.T) {
	var fail atomic.Bool
	sh, _, n := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
			return
		}
		successHandler(w, r)
	})
	sh.Execute(context.Background(), "RELIANCE")
	fail.Store(true)
	sh.Execute(context.Background(), "TCS")

	assert.Equal(t, int32(1), atomic.LoadInt32(&n.n))
	snap := sh.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, "RELIANCE", snap.Ticker)
}

func TestShellSaveCommands(t *testing.T) {
	sh, out, _ := newTestShell(t, successHandler)

	sh.Execute(context.Background(), "save json")
	assert.Contains(t, out.String(), "Nothing to save yet")

	sh.Execute(context.Background(), "RELIANCE")
	sh.confirm = func(string) (bool, error) { return false, nil }
	sh.Execute(context.Background(), "save html")
	sh.Execute(context.Background(), "save json")
	sh.Execute(context.Background(), "save pdf")
	assert.Contains(t, out.String(), "JSON Report saved: ")
	assert.Contains(t, out.String(), "PDF Report saved: ")

	entries, err := os.ReadDir(sh.outputDir)
	require.NoError(t, err)
	var exts []string
	for _, e := range entries {
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".json", ".pdf"}, exts)

	out.Reset()
	sh.Execute(context.Background(), "save csv")
	assert.Contains(t, out.String(), "unknown export format")
}

func TestShellSettingsCommands(t *testing.T) {
	sh, out, _ := newTestShell(t, successHandler)

	sh.Execute(context.Background(), "settings set rate_limit 5")
	assert.Equal(t, 5, sh.settings.RateLimit)
	assert.Contains(t, out.String(), "Updated rate_limit")

	out.Reset()
	sh.Execute(context.Background(), "settings set default_mode weekly")
	assert.Contains(t, out.String(), "Failed to update settings")
	assert.Equal(t, "short", sh.settings.DefaultMode)

	path := filepath.Join(t.TempDir(), "saved.toml")
	sh.Execute(context.Background(), "settings save "+path)
	loaded, err := config.LoadSettingsFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.RateLimit)

	out.Reset()
	sh.Execute(context.Background(), "settings show")
	assert.Contains(t, out.String(), "rate_limit: 5")
}

func TestShellRedactionPatternsApplyAfterSet(t *testing.T) {
	sh, out, _ := newTestShell(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"No data for acct-12345"}`))
	})

	sh.Execute(context.Background(), "settings set redaction_patterns acct-[0-9]+, ")
	assert.Equal(t, []string{"acct-[0-9]+"}, sh.settings.RedactionPatterns)

	out.Reset()
	sh.Execute(context.Background(), "XXXX")
	assert.Equal(t, "No data for <redacted>", sh.Snapshot().NoData)
	assert.NotContains(t, out.String(), "acct-12345")
}

func TestShellMiscCommands(t *testing.T) {
	sh, out, _ := newTestShell(t, successHandler)

	sh.Execute(context.Background(), "help")
	assert.Contains(t, out.String(), "save json | html | pdf")

	out.Reset()
	sh.Execute(context.Background(), "frobnicate the ticker")
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	out.Reset()
	sh.Execute(context.Background(), "RELIANCE")
	sh.Execute(context.Background(), "stats")
	assert.True(t, strings.Contains(out.String(), "Requests: 1"))

	assert.True(t, sh.Execute(context.Background(), "quit"))
}
