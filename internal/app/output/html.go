package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/MOYARU/quantops/internal/app/ui"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
)

type TemplateZone struct {
	Label string
	Value string
	Tone  string
}

type TemplateNews struct {
	Title  string
	Link   string
	Source string
	Domain string
}

// HTML report
type HTMLReportData struct {
	Ticker         string
	Company        string
	Sector         string
	Price          string
	PE             string
	SectorPE       string
	Volume         string
	MCap           string
	FScore         string
	MOS            string
	ValuationLabel string
	ValuationTone  string
	Horizon        string
	Zones          []TemplateZone
	Verdict        string
	Advice         string
	VerdictTone    string
	News           []TemplateNews
	FetchedAt      string
	RequestID      string

	UITitle     string
	UIPrice     string
	UISector    string
	UIValuation string
	UIStockPE   string
	UISectorPE  string
	UIZones     string
	UIVerdict   string
	UINews      string
}

func buildHTMLReportData(s panel.Snapshot) HTMLReportData {
	r := *s.Result
	v := r.Valuation()
	data := HTMLReportData{
		Ticker:         s.Ticker,
		Company:        r.Company,
		Sector:         r.Sector,
		Price:          panel.Currency + r.Price.String(),
		PE:             r.PE.String(),
		SectorPE:       r.SectorPE.String(),
		Volume:         string(r.Volume),
		MCap:           string(r.MCap),
		FScore:         string(r.FScore),
		MOS:            r.MOS.String(),
		ValuationLabel: panel.ValuationLabel(v),
		ValuationTone:  string(panel.ValuationTone(v)),
		Horizon:        s.Mode.Label(),
		Verdict:        r.Verdict,
		Advice:         r.Advice,
		VerdictTone:    string(panel.VerdictTone(r)),
		FetchedAt:      s.FetchedAt.Format("2006-01-02 15:04:05"),
		RequestID:      s.RequestID,

		UITitle:     msges.GetUIMessage("HTMLReportTitle"),
		UIPrice:     msges.GetUIMessage("HTMLPrice"),
		UISector:    msges.GetUIMessage("HTMLSector"),
		UIValuation: msges.GetUIMessage("HTMLValuation"),
		UIStockPE:   msges.GetUIMessage("HTMLStockPE"),
		UISectorPE:  msges.GetUIMessage("HTMLSectorPE"),
		UIZones:     msges.GetUIMessage("HTMLZones"),
		UIVerdict:   msges.GetUIMessage("HTMLVerdict"),
		UINews:      msges.GetUIMessage("HTMLNews"),
	}
	for _, z := range panel.Zones(r, s.Mode) {
		data.Zones = append(data.Zones, TemplateZone{
			Label: z.Label,
			Value: panel.Currency + z.Value.String(),
			Tone:  string(z.Tone),
		})
	}
	for _, n := range r.News {
		data.News = append(data.News, TemplateNews{
			Title:  n.Title,
			Link:   report.SanitizeURL(n.Link),
			Source: n.Source,
			Domain: n.Domain(),
		})
	}
	return data
}

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// WriteHTMLReport renders the panel as a standalone HTML page.
func WriteHTMLReport(w io.Writer, s panel.Snapshot) error {
	if s.Result == nil {
		return ErrNothingToExport
	}
	return reportTemplate.Execute(w, buildHTMLReportData(s))
}

// SaveHTMLReport writes the HTML page to dir, reports the saved path on w and
// returns it.
func SaveHTMLReport(w io.Writer, dir string, s panel.Snapshot) (string, error) {
	if s.Result == nil {
		return "", ErrNothingToExport
	}
	filename := reportFilename(dir, s.Ticker, "html", time.Now())

	if err := saveReport(filename, func(f io.Writer) error { return WriteHTMLReport(f, s) }); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("HTMLReportSaved", filename), ui.ColorReset)
	return filename, nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.UITitle}} - {{.Ticker}}</title>
    <style>
        :root {
            --bg: #020202;
            --panel: #18181b;
            --line: #27272a;
            --muted: #71717a;
            --text: #f4f4f5;
            --blue: #2563eb;
            --red: #ef4444;
            --green: #22c55e;
            --gray: #71717a;
        }
        * { box-sizing: border-box; }
        body { margin: 0; padding: 32px 16px; background: var(--bg); color: var(--text); font-family: "Inter", "Helvetica Neue", Arial, sans-serif; }
        .page { max-width: 1200px; margin: 0 auto; display: grid; grid-template-columns: 2fr 1fr; gap: 20px; }
        .top { grid-column: 1 / -1; display: flex; justify-content: space-between; align-items: center; padding: 20px 24px; border: 1px solid var(--line); border-radius: 24px; }
        .top h1 { margin: 0; font-style: italic; font-weight: 900; letter-spacing: -0.04em; }
        .top h1 span { color: var(--blue); }
        .region { background: var(--panel); border: 1px solid var(--line); border-radius: 32px; padding: 32px; }
        .wide { grid-column: 1 / -1; }
        .label { font-size: 11px; text-transform: uppercase; letter-spacing: .3em; color: var(--muted); margin: 0 0 8px; }
        .price { font-size: 72px; font-weight: 900; font-style: italic; margin: 0; }
        .sector { color: var(--blue); font-weight: 900; text-transform: uppercase; font-style: italic; font-size: 22px; }
        .badges span { display: inline-block; padding: 6px 16px; margin: 16px 8px 0 0; background: #52525b; border-radius: 999px; font-size: 11px; text-transform: uppercase; }
        .big { font-size: 56px; font-weight: 900; margin: 0; }
        .valuation { margin-top: 24px; padding: 16px; border-radius: 16px; text-align: center; font-weight: 900; text-transform: uppercase; font-style: italic; }
        .valuation.green { background: var(--green); color: #000; }
        .valuation.red { background: var(--red); color: #fff; }
        .zones { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
        .zone { background: #000; border: 1px solid var(--line); border-radius: 24px; padding: 28px; }
        .zone p.value { font-size: 40px; font-weight: 900; font-style: italic; margin: 0; }
        .red { color: var(--red); } .green { color: var(--green); } .gray { color: var(--gray); }
        .verdict { text-align: center; border-width: 4px; }
        .verdict.green { border-color: var(--green); background: rgba(34,197,94,.05); color: var(--text); }
        .verdict.red { border-color: var(--red); background: rgba(239,68,68,.05); color: var(--text); }
        .verdict h2 { font-size: 36px; font-style: italic; text-transform: uppercase; margin: 0 0 12px; }
        .news a { color: var(--text); text-decoration: none; font-weight: 700; }
        .news li { margin-bottom: 12px; }
        .meta { grid-column: 1 / -1; color: var(--muted); font-size: 12px; }
    </style>
</head>
<body>
<div class="page">
    <div class="top">
        <h1>QUANT <span>OPS</span></h1>
        <strong>{{.Ticker}}</strong>
    </div>

    <section class="region">
        <p class="label">{{.UIPrice}}</p>
        <p class="price">{{.Price}}</p>
        <p class="label">{{.UISector}}</p>
        <p class="sector">{{.Sector}}</p>
        {{if .Company}}<p>{{.Company}}{{if .MOS}} &middot; MOS {{.MOS}}%{{end}}</p>{{end}}
        <div class="badges">
            <span>VOL: {{.Volume}}</span>
            <span>MCAP: {{.MCap}}</span>
            <span>F-SCORE: {{.FScore}}/9</span>
        </div>
    </section>

    <section class="region">
        <p class="label">{{.UIValuation}}</p>
        <p class="label">{{.UIStockPE}}</p>
        <p class="big">{{.PE}}</p>
        <p class="label">{{.UISectorPE}}</p>
        <p class="big gray">{{.SectorPE}}</p>
        <div class="valuation {{.ValuationTone}}">{{.ValuationLabel}}</div>
    </section>

    <section class="region wide">
        <p class="label">{{.UIZones}} &middot; {{.Horizon}}</p>
        <div class="zones">
            {{range .Zones}}
            <div class="zone">
                <p class="label">{{.Label}}</p>
                <p class="value {{.Tone}}">{{.Value}}</p>
            </div>
            {{end}}
        </div>
    </section>

    <section class="region verdict {{.VerdictTone}}">
        <p class="label">{{.UIVerdict}}</p>
        <h2>{{.Verdict}}</h2>
        <p>{{.Advice}}</p>
    </section>

    {{if .News}}
    <section class="region news">
        <p class="label">{{.UINews}}</p>
        <ul>
            {{range .News}}
            <li><a href="{{.Link}}" rel="noopener noreferrer">{{.Title}}</a><br><span class="gray">{{.Source}}{{if .Domain}} &middot; {{.Domain}}{{end}}</span></li>
            {{end}}
        </ul>
    </section>
    {{end}}

    <p class="meta">{{.FetchedAt}} &middot; {{.RequestID}}</p>
</div>
</body>
</html>
`
