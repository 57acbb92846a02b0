package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{
  "status": "success",
  "company": "Tata Consultancy Services Limited",
  "sector": "Technology",
  "price": 3912.4,
  "f_score": 8,
  "mos": -42.7,
  "verdict": "QUALITY GROWTH",
  "advice": "EXPENSIVE: Elite health, wait for dip.",
  "pe": "N/A",
  "sec_pe": 25,
  "short_res": 3950.1, "short_piv": 3920.55, "short_sup": 3890,
  "long_res": 4100, "long_piv": 3980.25, "long_sup": 3800.75,
  "news": [{"title": "TCS wins deal", "link": "https://in.finance.yahoo.com/news/tcs.html", "source": "Reuters"}],
  "volume": "1,234,567",
  "mcap": "1415234.5 CR"
}`

func TestDecodeSuccess(t *testing.T) {
	out, err := Decode([]byte(successBody))
	require.NoError(t, err)

	s, ok := out.(Success)
	require.True(t, ok, "expected Success, got %T", out)
	r := s.Result

	assert.Equal(t, "Technology", r.Sector)
	assert.Equal(t, "3912.4", r.Price.String())
	assert.Equal(t, "N/A", r.PE.String())
	assert.False(t, r.PE.Numeric)
	assert.Equal(t, "25", r.SectorPE.String())
	assert.Equal(t, Metric("8"), r.FScore)
	assert.Equal(t, Metric("1,234,567"), r.Volume)
	assert.Equal(t, Metric("1415234.5 CR"), r.MCap)
	assert.Equal(t, "3920.55", r.ShortPiv.String())
	assert.Equal(t, "3800.75", r.LongSup.String())
	require.Len(t, r.News, 1)
	assert.Equal(t, "yahoo.com", r.News[0].Domain())
}

func TestDecodeFailureAndMalformed(t *testing.T) {
	out, err := Decode([]byte(`{"status":"error","message":"No data found, symbol may be delisted"}`))
	require.NoError(t, err)
	f, ok := out.(Failure)
	require.True(t, ok)
	assert.Equal(t, "error", f.Status)
	assert.Equal(t, "No data found, symbol may be delisted", f.Message)

	_, err = Decode([]byte(`<html>502 Bad Gateway</html>`))
	assert.Error(t, err)
}

func TestDecodeOddScalars(t *testing.T) {
	out, err := Decode([]byte(`{"status":"success","sector":"Energy","price":true,"volume":false}`))
	require.NoError(t, err)
	s, ok := out.(Success)
	require.True(t, ok, "expected Success, got %T", out)
	assert.Equal(t, "true", s.Result.Price.String())
	assert.False(t, s.Result.Price.Numeric)
	assert.Equal(t, Metric("false"), s.Result.Volume)

	_, err = Decode([]byte(`{"status":"success","price":{"ltp":1}}`))
	assert.Error(t, err)
}

func TestValuation(t *testing.T) {
	tests := []struct {
		name  string
		pe    Quote
		secPE Quote
		want  Valuation
	}{
		{"cheaper than sector", Num(10), Num(20), UnderValued},
		{"dearer than sector", Num(20), Num(10), OverValued},
		{"tie favours over-valued", Num(15), Num(15), OverValued},
		{"missing pe", Text("N/A"), Num(25), OverValued},
		{"numeric text coerces", Text("12.5"), Num(25), UnderValued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result{PE: tt.pe, SectorPE: tt.secPE}
			assert.Equal(t, tt.want, r.Valuation())
		})
	}
	assert.Equal(t, "UNDER-VALUED", UnderValued.String())
	assert.Equal(t, "OVER-VALUED", OverValued.String())
}

func TestLevelsByMode(t *testing.T) {
	r := Result{
		ShortRes: Num(110), ShortPiv: Num(100), ShortSup: Num(90),
		LongRes: Num(150), LongPiv: Num(120), LongSup: Num(80),
	}
	assert.Equal(t, Zone{Num(110), Num(100), Num(90)}, r.Levels(ModeShort))
	assert.Equal(t, Zone{Num(150), Num(120), Num(80)}, r.Levels(ModeLong))
}

func TestDisplayMode(t *testing.T) {
	m, err := ParseDisplayMode("monthly")
	require.NoError(t, err)
	assert.Equal(t, ModeLong, m)
	assert.Equal(t, ModeShort, m.Toggle())
	assert.Equal(t, "DAILY", ModeShort.Label())

	_, err = ParseDisplayMode("weekly")
	assert.Error(t, err)
}

func TestIsPrime(t *testing.T) {
	assert.True(t, Result{Verdict: "PRIME_VALUE"}.IsPrime())
	assert.False(t, Result{Verdict: "PRIME VALUE"}.IsPrime())
}

func TestQuoteMarshalKeepsText(t *testing.T) {
	raw, err := json.Marshal(Result{Status: StatusSuccess, PE: Text("N/A"), Price: Num(101.5)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"pe":"N/A"`)
	assert.Contains(t, string(raw), `"price":101.5`)
}
