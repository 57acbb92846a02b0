package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MOYARU/quantops/internal/app/output"
	"github.com/MOYARU/quantops/internal/config"
	"github.com/MOYARU/quantops/internal/engine"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
)

// ExportKind names a report format.
type ExportKind string

const (
	ExportJSON ExportKind = "json"
	ExportHTML ExportKind = "html"
	ExportPDF  ExportKind = "pdf"
)

func ParseExportKind(s string) (ExportKind, error) {
	switch ExportKind(strings.ToLower(strings.TrimSpace(s))) {
	case ExportJSON:
		return ExportJSON, nil
	case ExportHTML:
		return ExportHTML, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, html or pdf)", s)
}

// Session ties one audit client to one panel.
type Session struct {
	Settings config.Settings
	Client   *engine.Client
	Panel    *panel.Panel
}

// NewSession builds the client from settings and a panel that reports
// request failures through notifier.
func NewSession(s config.Settings, notifier panel.Notifier, userAgent string) (*Session, error) {
	client, err := engine.NewClient(s.BaseURL, s.Timeout(),
		engine.WithRateLimit(s.RateLimit),
		engine.WithRequestBudget(s.MaxRequests),
		engine.WithSanitizer(report.NewSanitizer(s.RedactionPatterns)),
		engine.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, err
	}
	mode, err := report.ParseDisplayMode(s.DefaultMode)
	if err != nil {
		mode = report.ModeShort
	}
	return &Session{
		Settings: s,
		Client:   client,
		Panel:    panel.New(client, notifier, mode),
	}, nil
}

// Audit sets the query and runs it, returning the panel state afterwards.
func (s *Session) Audit(ctx context.Context, ticker string) (panel.Snapshot, error) {
	s.Panel.SetQuery(ticker)
	err := s.Panel.RunAudit(ctx)
	return s.Panel.Snapshot(), err
}

// Export writes the held result in the given format to dir and reports the
// saved path on w.
func (s *Session) Export(w io.Writer, kind ExportKind, dir string) (string, error) {
	snap := s.Panel.Snapshot()
	if snap.Result == nil {
		return "", output.ErrNothingToExport
	}
	switch kind {
	case ExportJSON:
		return output.SaveJSONReport(w, dir, snap)
	case ExportHTML:
		return output.SaveHTMLReport(w, dir, snap)
	case ExportPDF:
		return output.SavePDFReport(w, dir, snap)
	}
	return "", errors.New("unsupported export format")
}
