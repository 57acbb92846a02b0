package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/MOYARU/quantops/internal/app/ui"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
)

// The core PDF fonts are cp1252; the rupee sign is spelled out.
const pdfCurrency = "INR "

type rgb struct{ r, g, b int }

func toneRGB(t panel.Tone) rgb {
	switch t {
	case panel.ToneRed:
		return rgb{239, 68, 68}
	case panel.ToneGreen:
		return rgb{34, 197, 94}
	case panel.ToneBlue:
		return rgb{37, 99, 235}
	default:
		return rgb{113, 113, 122}
	}
}

type pdfRenderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfRenderer) label(text string) {
	p.pdf.SetFont("Helvetica", "B", 8)
	p.pdf.SetTextColor(113, 113, 122)
	p.pdf.CellFormat(0, 5, strings.ToUpper(text), "", 1, "L", false, 0, "")
}

func (p *pdfRenderer) value(text string, size float64, tone panel.Tone) {
	c := toneRGB(tone)
	p.pdf.SetFont("Helvetica", "B", size)
	p.pdf.SetTextColor(c.r, c.g, c.b)
	p.pdf.CellFormat(0, size*0.5, p.tr(text), "", 1, "L", false, 0, "")
	p.pdf.Ln(2)
}

func (p *pdfRenderer) plain(text string) {
	p.pdf.SetFont("Helvetica", "", 10)
	p.pdf.SetTextColor(24, 24, 27)
	p.pdf.MultiCell(0, 5, p.tr(text), "", "L", false)
}

func (p *pdfRenderer) rule() {
	p.pdf.Ln(2)
	x, y := p.pdf.GetXY()
	p.pdf.SetDrawColor(212, 212, 216)
	p.pdf.Line(x, y, 200, y)
	p.pdf.Ln(4)
}

// WritePDFReport renders the panel as a one-page PDF.
func WritePDFReport(w io.Writer, s panel.Snapshot) error {
	if s.Result == nil {
		return ErrNothingToExport
	}
	r := *s.Result

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetTitle(fmt.Sprintf("%s - %s", msges.GetUIMessage("HTMLReportTitle"), s.Ticker), true)
	pdf.AddPage()
	p := &pdfRenderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "BI", 22)
	pdf.SetTextColor(24, 24, 27)
	pdf.CellFormat(40, 10, "QUANT", "", 0, "L", false, 0, "")
	blue := toneRGB(panel.ToneBlue)
	pdf.SetTextColor(blue.r, blue.g, blue.b)
	pdf.CellFormat(0, 10, "OPS  "+p.tr(s.Ticker), "", 1, "L", false, 0, "")
	p.rule()

	p.label(msges.GetUIMessage("HTMLPrice"))
	p.value(pdfCurrency+r.Price.String(), 28, panel.ToneGray)
	p.label(msges.GetUIMessage("HTMLSector"))
	p.value(r.Sector, 14, panel.ToneBlue)
	if r.Company != "" {
		p.plain(r.Company)
	}
	p.plain(fmt.Sprintf("VOL: %s   MCAP: %s   F-SCORE: %s/9", r.Volume, r.MCap, r.FScore))
	p.rule()

	v := r.Valuation()
	p.label(msges.GetUIMessage("HTMLValuation"))
	p.plain(fmt.Sprintf("%s %s   %s %s", msges.GetUIMessage("HTMLStockPE"), r.PE.String(), msges.GetUIMessage("HTMLSectorPE"), r.SectorPE.String()))
	p.value(strings.TrimLeft(panel.ValuationLabel(v), "▲▼ "), 14, panel.ValuationTone(v))
	p.rule()

	p.label(msges.GetUIMessage("HTMLZones") + " - " + s.Mode.Label())
	for _, z := range panel.Zones(r, s.Mode) {
		c := toneRGB(z.Tone)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(113, 113, 122)
		pdf.CellFormat(45, 8, z.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.CellFormat(0, 8, pdfCurrency+z.Value.String(), "", 1, "L", false, 0, "")
	}
	p.rule()

	p.label(msges.GetUIMessage("HTMLVerdict"))
	p.value(r.Verdict, 18, panel.VerdictTone(r))
	p.plain(r.Advice)

	if len(r.News) > 0 {
		p.rule()
		p.label(msges.GetUIMessage("HTMLNews"))
		for _, n := range r.News {
			p.plain("- " + n.Title + " (" + n.Source + ")")
			if link := report.SanitizeURL(n.Link); link != "#" {
				pdf.SetFont("Helvetica", "", 8)
				pdf.SetTextColor(blue.r, blue.g, blue.b)
				pdf.CellFormat(0, 4, p.tr(n.Domain()), "", 1, "L", false, 0, link)
			}
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(161, 161, 170)
	pdf.CellFormat(0, 4, s.FetchedAt.Format("2006-01-02 15:04:05")+"  "+s.RequestID, "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// SavePDFReport writes the PDF to dir, reports the saved path on w and
// returns it.
func SavePDFReport(w io.Writer, dir string, s panel.Snapshot) (string, error) {
	if s.Result == nil {
		return "", ErrNothingToExport
	}
	filename := reportFilename(dir, s.Ticker, "pdf", time.Now())

	if err := saveReport(filename, func(f io.Writer) error { return WritePDFReport(f, s) }); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("PDFReportSaved", filename), ui.ColorReset)
	return filename, nil
}
