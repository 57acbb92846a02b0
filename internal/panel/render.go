package panel

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/report"
)

const Currency = "₹"

// Tone is a colour token shared by the terminal, HTML and PDF renderings.
type Tone string

const (
	ToneRed   Tone = "red"
	ToneGray  Tone = "gray"
	ToneGreen Tone = "green"
	ToneBlue  Tone = "blue"
)

func (t Tone) ansi() string {
	switch t {
	case ToneRed:
		return ui.ColorRed
	case ToneGreen:
		return ui.ColorGreen
	case ToneBlue:
		return ui.ColorBlue
	default:
		return ui.ColorGray
	}
}

// ValuationTone picks the accent of the valuation label.
func ValuationTone(v report.Valuation) Tone {
	if v == report.UnderValued {
		return ToneGreen
	}
	return ToneRed
}

// VerdictTone picks the accent of the verdict region.
func VerdictTone(r report.Result) Tone {
	if r.IsPrime() {
		return ToneGreen
	}
	return ToneRed
}

// ValuationLabel is the arrowed label of the valuation region.
func ValuationLabel(v report.Valuation) string {
	if v == report.UnderValued {
		return "▲ " + v.String()
	}
	return "▼ " + v.String()
}

// Zone cards in display order.
type ZoneLevel struct {
	Label string
	Value report.Quote
	Tone  Tone
}

func Zones(r report.Result, mode report.DisplayMode) []ZoneLevel {
	z := r.Levels(mode)
	return []ZoneLevel{
		{Label: "RESISTANCE", Value: z.Resistance, Tone: ToneRed},
		{Label: "PIVOT POINT", Value: z.Pivot, Tone: ToneGray},
		{Label: "SUPPORT FLOOR", Value: z.Support, Tone: ToneGreen},
	}
}

// Renderer turns a Snapshot into terminal text. It holds no state.
type Renderer struct {
	Width int
	Color bool
}

var reANSI = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleLen(s string) int {
	return utf8.RuneCountInString(reANSI.ReplaceAllString(s, ""))
}

func pad(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

func (rd Renderer) paint(color, s string) string {
	return ui.Paint(rd.Color, color, s)
}

// Badge renders a pill-shaped label.
func (rd Renderer) Badge(label string) string {
	if rd.Color {
		return "\033[100;97m " + label + " " + ui.ColorReset
	}
	return "( " + label + " )"
}

// ZoneCard renders a boxed level card of the given inner width.
func (rd Renderer) ZoneCard(label string, value report.Quote, tone Tone, width int) []string {
	if width < 12 {
		width = 12
	}
	border := rd.paint(ui.ColorGray, "┌"+strings.Repeat("─", width)+"┐")
	bottom := rd.paint(ui.ColorGray, "└"+strings.Repeat("─", width)+"┘")
	side := rd.paint(ui.ColorGray, "│")
	text := truncate(Currency+value.String(), width-2)
	return []string{
		border,
		side + " " + pad(rd.paint(ui.ColorGray, truncate(label, width-2)), width-1) + side,
		side + " " + pad(rd.paint(ui.ColorBold+tone.ansi(), text), width-1) + side,
		bottom,
	}
}

func (rd Renderer) box(title string, tone Tone, body []string) []string {
	inner := rd.Width - 4
	head := "─ " + title + " "
	topFill := inner + 2 - visibleLen(head)
	if topFill < 0 {
		topFill = 0
	}
	lines := []string{rd.paint(tone.ansi(), "┌"+head+strings.Repeat("─", topFill)+"┐")}
	side := rd.paint(tone.ansi(), "│")
	for _, l := range body {
		lines = append(lines, side+" "+pad(l, inner)+" "+side)
	}
	lines = append(lines, rd.paint(tone.ansi(), "└"+strings.Repeat("─", inner+2)+"┘"))
	return lines
}

// InputBar renders the title, the uppercased query and the action button.
func (rd Renderer) InputBar(s Snapshot) string {
	title := rd.paint(ui.ColorBold+ui.ColorWhite, "QUANT ") + rd.paint(ui.ColorBold+ui.ColorBlue, "OPS")
	query := s.DisplayQuery()
	if query == "" {
		query = rd.paint(ui.ColorGray, "SYMBOL")
	}
	button := "EXECUTE"
	if s.Loading {
		button = "..."
	}
	return fmt.Sprintf("%s   [ %s ]  %s", title, query, rd.paint(ui.ColorBgBlue, " "+button+" "))
}

// Render draws the whole panel. Without a held result only the input bar
// (and the no-data line, if any) is drawn.
func (rd Renderer) Render(s Snapshot) string {
	if rd.Width < 60 {
		rd.Width = 60
	}
	var out []string
	out = append(out, rd.InputBar(s))
	if s.Result == nil {
		if s.NoData != "" {
			out = append(out, rd.paint(ui.ColorGray, "NO DATA: "+s.NoData))
		}
		return strings.Join(out, "\n") + "\n"
	}

	r := *s.Result
	out = append(out, "")
	out = append(out, rd.priceRegion(s.Ticker, r)...)
	out = append(out, rd.valuationRegion(r)...)
	out = append(out, rd.zoneRegion(r, s.Mode)...)
	out = append(out, rd.verdictRegion(r)...)
	if len(r.News) > 0 {
		out = append(out, rd.newsRegion(r)...)
	}
	return strings.Join(out, "\n") + "\n"
}

func (rd Renderer) priceRegion(ticker string, r report.Result) []string {
	body := []string{
		rd.paint(ui.ColorGray, "INSTITUTIONAL PRICE LTP"),
		rd.paint(ui.ColorBold+ui.ColorWhite, Currency+r.Price.String()),
		rd.paint(ui.ColorGray, "SECTOR INDUSTRY ") + rd.paint(ui.ColorBold+ui.ColorBlue, r.Sector),
	}
	if r.Company != "" {
		body = append(body, rd.paint(ui.ColorGray, "COMPANY ")+r.Company)
	}
	if r.MOS.Numeric || r.MOS.Text != "" {
		body = append(body, rd.paint(ui.ColorGray, "MARGIN OF SAFETY ")+r.MOS.String()+"%")
	}
	body = append(body, "", strings.Join([]string{
		rd.Badge("VOL: " + string(r.Volume)),
		rd.Badge("MCAP: " + string(r.MCap)),
		rd.Badge("F-SCORE: " + string(r.FScore) + "/9"),
	}, " "))
	return rd.box(ticker, ToneGray, body)
}

func (rd Renderer) valuationRegion(r report.Result) []string {
	v := r.Valuation()
	label := ValuationLabel(v)
	if rd.Color {
		bg := ui.ColorBgRed
		if v == report.UnderValued {
			bg = ui.ColorBgGreen
		}
		label = bg + " " + label + " " + ui.ColorReset
	} else {
		label = "[ " + label + " ]"
	}
	body := []string{
		rd.paint(ui.ColorGray, "STOCK P/E      ") + rd.paint(ui.ColorBold, r.PE.String()),
		rd.paint(ui.ColorGray, "SECTOR AVG P/E ") + r.SectorPE.String(),
		label,
	}
	return rd.box("VALUATION MATRIX", ToneGray, body)
}

func (rd Renderer) zoneRegion(r report.Result, mode report.DisplayMode) []string {
	daily, monthly := "DAILY", "MONTHLY"
	if mode == report.ModeLong {
		monthly = rd.selected(monthly)
		daily = rd.paint(ui.ColorGray, daily)
	} else {
		daily = rd.selected(daily)
		monthly = rd.paint(ui.ColorGray, monthly)
	}
	inner := rd.Width - 4
	cardWidth := (inner-4)/3 - 2

	cards := make([][]string, 0, 3)
	for _, z := range Zones(r, mode) {
		cards = append(cards, rd.ZoneCard(z.Label, z.Value, z.Tone, cardWidth))
	}
	body := []string{daily + " " + monthly, ""}
	for i := range cards[0] {
		row := make([]string, 0, len(cards))
		for _, c := range cards {
			row = append(row, c[i])
		}
		body = append(body, strings.Join(row, "  "))
	}
	return rd.box("STRATEGIC TRADE ZONES", ToneBlue, body)
}

func (rd Renderer) selected(label string) string {
	if rd.Color {
		return ui.ColorBgBlue + " " + label + " " + ui.ColorReset
	}
	return "[" + label + "]"
}

func (rd Renderer) verdictRegion(r report.Result) []string {
	body := []string{
		rd.paint(ui.ColorBold+ui.ColorWhite, r.Verdict),
		truncate(r.Advice, rd.Width-4),
	}
	return rd.box("FINAL VERDICT", VerdictTone(r), body)
}

func (rd Renderer) newsRegion(r report.Result) []string {
	body := make([]string, 0, len(r.News))
	for _, n := range r.News {
		src := n.Source
		if d := n.Domain(); d != "" {
			src += " · " + d
		}
		body = append(body, truncate("• "+n.Title, rd.Width-4))
		body = append(body, rd.paint(ui.ColorGray, "  "+truncate(src, rd.Width-6)))
	}
	return rd.box("HEADLINES", ToneGray, body)
}
