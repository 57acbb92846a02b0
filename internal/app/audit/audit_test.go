package audit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/quantops/internal/panel"
)

const successBody = `{
	"status": "success",
	"company": "Tata Consultancy Services Limited",
	"sector": "Technology",
	"price": 3890.5,
	"pe": 28.1,
	"sec_pe": 31.4,
	"volume": "1,204,551",
	"mcap": "1407512.3 CR",
	"f_score": 6,
	"mos": 9.2,
	"short_res": 3920.1, "short_piv": 3880.4, "short_sup": 3851.2,
	"long_res": 4102.7, "long_piv": 3950.3, "long_sup": 3701.9,
	"verdict": "PRIME_VALUE",
	"advice": "STRONG BUY: High safety & low price.",
	"news": [{"title": "TCS wins deal", "link": "https://www.moneycontrol.com/news/tcs", "source": "Moneycontrol"}]
}`

func auditServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAuditPrintsPanelAndExports(t *testing.T) {
	srv := auditServer(t, successBody)
	dir := t.TempDir()
	var out, errOut bytes.Buffer

	err := RunAudit("tcs", Options{
		BaseURL:   srv.URL,
		Mode:      "long",
		JSON:      true,
		HTML:      true,
		PDF:       true,
		OutputDir: dir,
		Out:       &out,
		Err:       &errOut,
	})
	require.NoError(t, err)
	assert.Empty(t, errOut.String())

	text := out.String()
	assert.Contains(t, text, "TCS")
	assert.Contains(t, text, "3890.5")
	assert.Contains(t, text, "[MONTHLY]")
	assert.Contains(t, text, "4102.7")
	assert.Contains(t, text, "UNDER-VALUED")
	assert.Contains(t, text, "JSON Report saved: ")
	assert.Contains(t, text, "PDF Report saved: ")

	jsonFiles, _ := filepath.Glob(filepath.Join(dir, "quantops_TCS_*.json"))
	require.Len(t, jsonFiles, 1)
	raw, err := os.ReadFile(jsonFiles[0])
	require.NoError(t, err)
	var doc struct {
		Ticker    string `json:"ticker"`
		Mode      string `json:"mode"`
		Valuation string `json:"valuation"`
		Accent    string `json:"verdict_accent"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "TCS", doc.Ticker)
	assert.Equal(t, "LONG", doc.Mode)
	assert.Equal(t, "UNDER-VALUED", doc.Valuation)
	assert.Equal(t, "green", doc.Accent)

	htmlFiles, _ := filepath.Glob(filepath.Join(dir, "quantops_TCS_*.html"))
	assert.Len(t, htmlFiles, 1)
	pdfFiles, _ := filepath.Glob(filepath.Join(dir, "quantops_TCS_*.pdf"))
	assert.Len(t, pdfFiles, 1)
}

func TestRunAuditNonSuccessIsNoData(t *testing.T) {
	srv := auditServer(t, `{"status":"error","message":"No data found"}`)
	dir := t.TempDir()
	var out, errOut bytes.Buffer

	err := RunAudit("XXXX", Options{BaseURL: srv.URL, JSON: true, OutputDir: dir, Out: &out, Err: &errOut})
	require.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, out.String(), "NO DATA: No data found")
	assert.NotContains(t, errOut.String(), panel.OfflineNotice)

	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	assert.Empty(t, files)
}

func TestRunAuditRedactsWithConfigPatterns(t *testing.T) {
	srv := auditServer(t, `{"status":"error","message":"No data for acct-12345"}`)
	cfg := filepath.Join(t.TempDir(), "quantops.yaml")
	body := "base_url: " + srv.URL + "\nredaction_patterns:\n  - \"acct-[0-9]+\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	var out, errOut bytes.Buffer
	err := RunAudit("XXXX", Options{ConfigPath: cfg, Out: &out, Err: &errOut})
	require.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, out.String(), "NO DATA: No data for <redacted>")
	assert.NotContains(t, out.String(), "acct-12345")
	assert.NotContains(t, err.Error(), "acct-12345")
}

func TestRunAuditOfflineReportsNotice(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	var out, errOut bytes.Buffer
	err := RunAudit("INFY", Options{BaseURL: base, Out: &out, Err: &errOut})
	require.Error(t, err)
	assert.Equal(t, panel.OfflineNotice+"\n", errOut.String())
}

func TestRunAuditRequiresTicker(t *testing.T) {
	require.Error(t, RunAudit("  ", Options{}))
}

func TestResolveSettingsOverrides(t *testing.T) {
	s, err := ResolveSettings("", "http://10.0.0.5:9000/", "monthly")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", s.BaseURL)
	assert.Equal(t, "long", s.DefaultMode)

	_, err = ResolveSettings("", "", "weekly")
	assert.Error(t, err)

	_, err = ResolveSettings(filepath.Join(t.TempDir(), "missing.yaml"), "", "")
	assert.Error(t, err)
}

func TestParseExportKind(t *testing.T) {
	k, err := ParseExportKind(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportPDF, k)

	_, err = ParseExportKind("csv")
	assert.Error(t, err)
}
