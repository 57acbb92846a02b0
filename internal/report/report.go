package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	StatusSuccess = "success"

	// PrimeVerdict is the only verdict rendered with the positive accent.
	PrimeVerdict = "PRIME_VALUE"
)

type DisplayMode string

const (
	ModeShort DisplayMode = "SHORT"
	ModeLong  DisplayMode = "LONG"
)

// ParseDisplayMode accepts short/long and their DAILY/MONTHLY labels.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SHORT", "DAILY", "D":
		return ModeShort, nil
	case "LONG", "MONTHLY", "M":
		return ModeLong, nil
	}
	return ModeShort, fmt.Errorf("unknown display mode: %q (use short|long)", s)
}

func (m DisplayMode) Toggle() DisplayMode {
	if m == ModeLong {
		return ModeShort
	}
	return ModeLong
}

// Label is the horizon name shown on the mode switch.
func (m DisplayMode) Label() string {
	if m == ModeLong {
		return "MONTHLY"
	}
	return "DAILY"
}

// Quote is a numeric field the backend may also send as text (e.g. "N/A").
type Quote struct {
	Value   float64
	Numeric bool
	Text    string
}

func Num(v float64) Quote {
	return Quote{Value: v, Numeric: true}
}

func Text(s string) Quote {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Quote{Value: v, Numeric: true, Text: s}
	}
	return Quote{Text: s}
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = Quote{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Text(s)
		return nil
	}
	if isComposite(data) {
		return fmt.Errorf("quote must be a scalar, got %.20s", data)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// true, false and other bare scalars are shown as sent.
		*q = Text(string(data))
		return nil
	}
	*q = Num(v)
	return nil
}

func isComposite(data []byte) bool {
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

func (q Quote) MarshalJSON() ([]byte, error) {
	if q.Text != "" {
		return json.Marshal(q.Text)
	}
	if !q.Numeric {
		return []byte("null"), nil
	}
	return json.Marshal(q.Value)
}

// String renders the quote verbatim: text as sent, numbers in shortest form.
func (q Quote) String() string {
	if q.Text != "" {
		return q.Text
	}
	if !q.Numeric {
		return ""
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

// Metric is a display-only value (volume, market cap, F-Score) kept as text.
type Metric string

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*m = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Metric(s)
	case isComposite(data):
		return fmt.Errorf("metric must be a scalar, got %.20s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*m = Metric(data)
			return nil
		}
		*m = Metric(n.String())
	}
	return nil
}

type NewsItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// Domain returns the registrable domain of the article link, or "" when unparseable.
func (n NewsItem) Domain() string {
	u, err := url.Parse(n.Link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}

// Zone is one horizon's precomputed support/pivot/resistance triple.
type Zone struct {
	Resistance Quote
	Pivot      Quote
	Support    Quote
}

// Result is the audit payload as returned by the backend.
type Result struct {
	Status   string     `json:"status"`
	Company  string     `json:"company,omitempty"`
	Sector   string     `json:"sector"`
	Price    Quote      `json:"price"`
	PE       Quote      `json:"pe"`
	SectorPE Quote      `json:"sec_pe"`
	Volume   Metric     `json:"volume"`
	MCap     Metric     `json:"mcap"`
	FScore   Metric     `json:"f_score"`
	MOS      Quote      `json:"mos"`
	ShortRes Quote      `json:"short_res"`
	ShortPiv Quote      `json:"short_piv"`
	ShortSup Quote      `json:"short_sup"`
	LongRes  Quote      `json:"long_res"`
	LongPiv  Quote      `json:"long_piv"`
	LongSup  Quote      `json:"long_sup"`
	Verdict  string     `json:"verdict"`
	Advice   string     `json:"advice"`
	News     []NewsItem `json:"news,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// Levels selects the level triple for the given horizon.
func (r Result) Levels(mode DisplayMode) Zone {
	if mode == ModeLong {
		return Zone{Resistance: r.LongRes, Pivot: r.LongPiv, Support: r.LongSup}
	}
	return Zone{Resistance: r.ShortRes, Pivot: r.ShortPiv, Support: r.ShortSup}
}

type Valuation int

const (
	OverValued Valuation = iota
	UnderValued
)

func (v Valuation) String() string {
	if v == UnderValued {
		return "UNDER-VALUED"
	}
	return "OVER-VALUED"
}

// Valuation compares stock P/E against sector P/E with a strict less-than.
// Equal ratios and non-numeric quotes classify as over-valued.
func (r Result) Valuation() Valuation {
	if r.PE.Numeric && r.SectorPE.Numeric && r.PE.Value < r.SectorPE.Value {
		return UnderValued
	}
	return OverValued
}

func (r Result) IsPrime() bool {
	return r.Verdict == PrimeVerdict
}
