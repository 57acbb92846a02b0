package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/MOYARU/quantops/internal/app/output"
	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/config"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
	appver "github.com/MOYARU/quantops/internal/version"
)

// ErrNoData is returned when the backend answered with a non-success status.
var ErrNoData = errors.New("no data for ticker")

type Options struct {
	ConfigPath string
	BaseURL    string
	Mode       string
	JSON       bool
	HTML       bool
	PDF        bool
	OutputDir  string

	// AllowPrompts enables the blocking key wait of the offline alert.
	AllowPrompts bool

	Out io.Writer
	Err io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o Options) errOut() io.Writer {
	if o.Err == nil {
		return os.Stderr
	}
	return o.Err
}

// ResolveSettings loads the settings file (explicit path or the working
// directory default) and applies flag overrides on top.
func ResolveSettings(configPath, baseURL, mode string) (config.Settings, error) {
	var s config.Settings
	if configPath != "" {
		loaded, err := config.LoadSettingsFrom(configPath)
		if err != nil {
			return loaded, err
		}
		s = loaded
	} else {
		s = config.LoadSettings()
	}
	if baseURL != "" {
		s.BaseURL = baseURL
	}
	if mode != "" {
		m, err := report.ParseDisplayMode(mode)
		if err != nil {
			return s, err
		}
		s.DefaultMode = strings.ToLower(string(m))
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// RunAudit performs a single audit for ticker, prints the panel and writes
// any requested exports.
func RunAudit(ticker string, opts Options) error {
	if strings.TrimSpace(ticker) == "" {
		return errors.New("ticker is required")
	}
	settings, err := ResolveSettings(opts.ConfigPath, opts.BaseURL, opts.Mode)
	if err != nil {
		return err
	}

	errOut := opts.errOut()
	notifier := panel.NotifierFunc(func(message string) {
		if opts.AllowPrompts {
			ui.Alert(errOut, message)
			return
		}
		fmt.Fprintln(errOut, message)
	})

	session, err := NewSession(settings, notifier, appver.ClientUserAgent())
	if err != nil {
		return err
	}

	ctx, cancel := ui.WaitForCancel(context.Background())
	defer cancel()

	out := opts.out()
	color := opts.Out == nil && ui.IsInteractive()
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("Backend", session.Client.BaseURL()), ui.ColorReset)

	var stopDots func()
	if color {
		label := msges.GetUIMessage("AuditStarting", strings.ToUpper(strings.TrimSpace(ticker)), session.Panel.Snapshot().Mode.Label())
		stopDots = startStatusDots(ctx, out, label)
	}
	start := time.Now()
	snap, runErr := session.Audit(ctx, ticker)
	if stopDots != nil {
		stopDots()
	}

	if runErr != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "%s%s%s\n", ui.ColorYellow, msges.GetUIMessage("AuditCancelled"), ui.ColorReset)
		}
		log.Error().Err(runErr).Str("ticker", ticker).Dur("elapsed", time.Since(start)).Msg("audit failed")
		return runErr
	}

	width := 100
	if color {
		width = ui.Width()
	}
	output.PrintPanel(out, snap, color, width)

	if snap.Result == nil {
		return fmt.Errorf("%w %s: %s", ErrNoData, snap.Ticker, snap.NoData)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	exports := []struct {
		on      bool
		kind    ExportKind
		failMsg string
	}{
		{opts.JSON, ExportJSON, "JSONReportFailed"},
		{opts.HTML, ExportHTML, "HTMLReportFailed"},
		{opts.PDF, ExportPDF, "PDFReportFailed"},
	}
	for _, e := range exports {
		if !e.on {
			continue
		}
		if _, err := session.Export(out, e.kind, dir); err != nil {
			fmt.Fprintf(errOut, "%s%s%s\n", ui.ColorRed, msges.GetUIMessage(e.failMsg, err), ui.ColorReset)
		}
	}
	return nil
}
