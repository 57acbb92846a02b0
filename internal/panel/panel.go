// Package panel holds the audit panel view-model: the ticker query, the held
// result, the display mode and the loading flag, plus the fetch-and-render cycle.
package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/MOYARU/quantops/internal/report"
)

// OfflineNotice is the only failure text the user ever sees.
const OfflineNotice = "API BRIDGE OFFLINE"

var ErrSuperseded = errors.New("audit superseded by a newer request")

type State int

const (
	StateAwaitingInput State = iota
	StateShowingResults
)

func (s State) String() string {
	if s == StateShowingResults {
		return "showing-results"
	}
	return "awaiting-input"
}

type Fetcher interface {
	FetchAudit(ctx context.Context, ticker string) (report.Outcome, error)
}

// Notifier surfaces a blocking notice to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Snapshot is a copy of the panel state taken under lock.
type Snapshot struct {
	Query     string
	Ticker    string // ticker of the held result
	Mode      report.DisplayMode
	Loading   bool
	Result    *report.Result
	NoData    string
	RequestID string
	FetchedAt time.Time
}

func (s Snapshot) State() State {
	if s.Result != nil {
		return StateShowingResults
	}
	return StateAwaitingInput
}

// DisplayQuery is the query uppercased for display only.
func (s Snapshot) DisplayQuery() string {
	return strings.ToUpper(s.Query)
}

type Panel struct {
	fetcher  Fetcher
	notifier Notifier

	mu        sync.Mutex
	query     string
	ticker    string
	mode      report.DisplayMode
	loading   bool
	result    *report.Result
	noData    string
	requestID string
	fetchedAt time.Time
	gen       uint64
	cancel    context.CancelFunc
}

func New(fetcher Fetcher, notifier Notifier, mode report.DisplayMode) *Panel {
	if mode != report.ModeLong {
		mode = report.ModeShort
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Panel{fetcher: fetcher, notifier: notifier, mode: mode}
}

func (p *Panel) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
}

func (p *Panel) SetMode(m report.DisplayMode) {
	p.mu.Lock()
	p.mode = m
	p.mu.Unlock()
}

func (p *Panel) ToggleMode() report.DisplayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = p.mode.Toggle()
	return p.mode
}

func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{
		Query:     p.query,
		Ticker:    p.ticker,
		Mode:      p.mode,
		Loading:   p.loading,
		NoData:    p.noData,
		RequestID: p.requestID,
		FetchedAt: p.fetchedAt,
	}
	if p.result != nil {
		r := *p.result
		s.Result = &r
	}
	return s
}

// RunAudit fetches the current query. An empty query is a no-op. A newer call
// cancels this one and its completion is dropped with ErrSuperseded. On request
// failure the notifier fires once and the held result is left untouched.
func (p *Panel) RunAudit(ctx context.Context) error {
	p.mu.Lock()
	ticker := strings.TrimSpace(p.query)
	if ticker == "" {
		p.mu.Unlock()
		return nil
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	reqCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.loading = true
	rid := uuid.New().String()
	p.mu.Unlock()

	log.Info().Str("request_id", rid).Str("ticker", ticker).Msg("audit requested")
	start := time.Now()
	out, err := p.fetcher.FetchAudit(reqCtx, ticker)
	cancel()

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		log.Debug().Str("request_id", rid).Str("ticker", ticker).Msg("dropping superseded audit response")
		return ErrSuperseded
	}
	p.loading = false
	p.cancel = nil

	if err != nil {
		p.mu.Unlock()
		log.Warn().Err(err).Str("request_id", rid).Str("ticker", ticker).Dur("elapsed", time.Since(start)).Msg("audit request failed")
		p.notifier.Notify(OfflineNotice)
		return fmt.Errorf("audit %s: %w", ticker, err)
	}

	p.ticker = strings.ToUpper(ticker)
	p.requestID = rid
	p.fetchedAt = time.Now()
	switch o := out.(type) {
	case report.Success:
		r := o.Result
		p.result = &r
		p.noData = ""
	case report.Failure:
		p.result = nil
		p.noData = noDataText(o)
	default:
		p.result = nil
		p.noData = "unrecognised response"
	}
	state := StateAwaitingInput
	if p.result != nil {
		state = StateShowingResults
	}
	p.mu.Unlock()

	log.Info().
		Str("request_id", rid).
		Str("ticker", ticker).
		Str("state", state.String()).
		Dur("elapsed", time.Since(start)).
		Msg("audit applied")
	return nil
}

func noDataText(f report.Failure) string {
	if f.Message != "" {
		return f.Message
	}
	if f.Status != "" {
		return "status " + f.Status
	}
	return "empty response"
}
