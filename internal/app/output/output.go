package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/MOYARU/quantops/internal/app/ui"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
)

var ErrNothingToExport = errors.New("no audit result to export")

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9\-]+`)

// reportFilename builds quantops_<TICKER>_<timestamp>.<ext> in dir.
func reportFilename(dir, ticker, ext string, at time.Time) string {
	name := reUnsafeName.ReplaceAllString(ticker, "_")
	if name == "" {
		name = "UNKNOWN"
	}
	return filepath.Join(dir, fmt.Sprintf("quantops_%s_%s.%s", name, at.Format("20060102_150405"), ext))
}

// PrintPanel writes the rendered panel for s.
func PrintPanel(w io.Writer, s panel.Snapshot, color bool, width int) {
	fmt.Fprint(w, panel.Renderer{Width: width, Color: color}.Render(s))
}

type zoneJSON struct {
	Resistance report.Quote `json:"resistance"`
	Pivot      report.Quote `json:"pivot"`
	Support    report.Quote `json:"support"`
}

type JSONReport struct {
	Ticker    string        `json:"ticker"`
	RequestID string        `json:"request_id"`
	FetchedAt time.Time     `json:"fetched_at"`
	Mode      string        `json:"mode"`
	Horizon   string        `json:"horizon"`
	Valuation string        `json:"valuation"`
	Accent    string        `json:"verdict_accent"`
	Zone      zoneJSON      `json:"zone"`
	Result    report.Result `json:"result"`
}

func buildJSONReport(s panel.Snapshot) JSONReport {
	r := *s.Result
	z := r.Levels(s.Mode)
	return JSONReport{
		Ticker:    s.Ticker,
		RequestID: s.RequestID,
		FetchedAt: s.FetchedAt,
		Mode:      string(s.Mode),
		Horizon:   s.Mode.Label(),
		Valuation: r.Valuation().String(),
		Accent:    string(panel.VerdictTone(r)),
		Zone:      zoneJSON{Resistance: z.Resistance, Pivot: z.Pivot, Support: z.Support},
		Result:    r,
	}
}

// SaveJSONReport writes the held result to dir, reports the saved path on w
// and returns it.
func SaveJSONReport(w io.Writer, dir string, s panel.Snapshot) (string, error) {
	if s.Result == nil {
		return "", ErrNothingToExport
	}
	filename := reportFilename(dir, s.Ticker, "json", time.Now())

	err := saveReport(filename, func(f io.Writer) error {
		encoder := json.NewEncoder(f)
		encoder.SetIndent("", "  ")
		return encoder.Encode(buildJSONReport(s))
	})
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("JSONReportSaved", filename), ui.ColorReset)
	return filename, nil
}

// saveReport creates filename and hands it to write. A failed write or
// close removes the file so no partial report is left behind.
func saveReport(filename string, write func(io.Writer) error) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(filename)
		}
	}()
	return write(f)
}
