package panel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/quantops/internal/report"
)

func TestBadge(t *testing.T) {
	assert.Equal(t, "( VOL: 12 )", Renderer{}.Badge("VOL: 12"))

	colored := Renderer{Color: true}.Badge("MCAP: 9 CR")
	assert.Contains(t, colored, "MCAP: 9 CR")
	assert.Contains(t, colored, "\x1b[")
}

func TestZoneCard(t *testing.T) {
	lines := Renderer{}.ZoneCard("RESISTANCE", report.Num(1540.1), ToneRed, 20)
	require.Len(t, lines, 4)
	assert.Equal(t, "┌"+strings.Repeat("─", 20)+"┐", lines[0])
	assert.Contains(t, lines[1], "RESISTANCE")
	assert.Contains(t, lines[2], "₹1540.1")
	for _, l := range lines {
		assert.Equal(t, 22, visibleLen(l))
	}

	text := Renderer{}.ZoneCard("PIVOT POINT", report.Text("N/A"), ToneGray, 4)
	assert.Equal(t, 14, visibleLen(text[0]))
	assert.Contains(t, text[2], "₹N/A")
}

func TestTones(t *testing.T) {
	assert.Equal(t, ToneGreen, ValuationTone(report.UnderValued))
	assert.Equal(t, ToneRed, ValuationTone(report.OverValued))

	r := report.Result{Verdict: "PRIME_VALUE"}
	assert.Equal(t, ToneGreen, VerdictTone(r))
	r.Verdict = "PRIME VALUE"
	assert.Equal(t, ToneRed, VerdictTone(r))
}

func TestRenderWithoutResultShowsOnlyInputBar(t *testing.T) {
	out := Renderer{Width: 80}.Render(Snapshot{Query: "infy", Mode: report.ModeShort})
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "[ INFY ]")
	assert.Contains(t, out, "EXECUTE")

	loading := Renderer{Width: 80}.Render(Snapshot{Query: "infy", Loading: true})
	assert.Contains(t, loading, "...")
}
