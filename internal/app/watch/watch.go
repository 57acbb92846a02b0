package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"github.com/MOYARU/quantops/internal/app/audit"
	"github.com/MOYARU/quantops/internal/app/output"
	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/config"
	"github.com/MOYARU/quantops/internal/engine"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
	appver "github.com/MOYARU/quantops/internal/version"
)

var ErrNoTickers = errors.New("watch needs at least one ticker")

type Options struct {
	ConfigPath string
	BaseURL    string
	Mode       string
	Schedule   string
	Out        io.Writer
}

// Watcher re-audits a fixed set of tickers on a cron schedule. Each ticker
// has its own panel; all panels share one rate-limited client.
type Watcher struct {
	client  *engine.Client
	tickers []string
	panels  map[string]*panel.Panel
	out     io.Writer
	color   bool
	width   int
	cron    *cron.Cron

	mu   sync.Mutex
	runs int
}

func New(s config.Settings, tickers []string, out io.Writer) (*Watcher, error) {
	seen := make(map[string]bool)
	var list []string
	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToUpper(t)] {
			continue
		}
		seen[strings.ToUpper(t)] = true
		list = append(list, t)
	}
	if len(list) == 0 {
		return nil, ErrNoTickers
	}

	client, err := engine.NewClient(s.BaseURL, s.Timeout(),
		engine.WithRateLimit(s.RateLimit),
		engine.WithRequestBudget(s.MaxRequests),
		engine.WithSanitizer(report.NewSanitizer(s.RedactionPatterns)),
		engine.WithUserAgent(appver.WatchUserAgent()),
	)
	if err != nil {
		return nil, err
	}
	mode, err := report.ParseDisplayMode(s.DefaultMode)
	if err != nil {
		mode = report.ModeShort
	}

	w := &Watcher{
		client:  client,
		tickers: list,
		panels:  make(map[string]*panel.Panel, len(list)),
		out:     out,
		width:   100,
		cron:    cron.New(),
	}
	if out == nil {
		w.out = os.Stdout
		w.color = ui.IsInteractive()
		if w.color {
			w.width = ui.Width()
		}
	}
	for _, t := range list {
		notifier := panel.NotifierFunc(func(message string) {
			fmt.Fprintf(w.out, "%s%s%s\n", ui.ColorRed, message, ui.ColorReset)
		})
		p := panel.New(client, notifier, mode)
		p.SetQuery(t)
		w.panels[t] = p
	}
	return w, nil
}

// RunOnce audits every ticker in order and prints each panel.
func (w *Watcher) RunOnce(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.runs++

	for _, t := range w.tickers {
		if ctx.Err() != nil {
			return
		}
		p := w.panels[t]
		err := p.RunAudit(ctx)
		if errors.Is(err, panel.ErrSuperseded) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("ticker", t).Int("run", w.runs).Msg("watch audit failed")
			continue
		}
		fmt.Fprintf(w.out, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("WatchTick", time.Now().Format("15:04:05"), strings.ToUpper(t)), ui.ColorReset)
		output.PrintPanel(w.out, p.Snapshot(), w.color, w.width)
	}
}

func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *Watcher) Snapshot(ticker string) (panel.Snapshot, bool) {
	p, ok := w.panels[ticker]
	if !ok {
		return panel.Snapshot{}, false
	}
	return p.Snapshot(), true
}

func (w *Watcher) Stats() engine.Stats {
	return w.client.Stats()
}

// Start registers the schedule and starts the cron loop. Jobs run with ctx.
func (w *Watcher) Start(ctx context.Context, schedule string) error {
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}
	w.cron.Start()
	log.Info().Str("schedule", schedule).Strs("tickers", w.tickers).Msg("watch started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	log.Info().Int("runs", w.Runs()).Msg("watch stopped")
}

// Run audits tickers immediately, then on schedule until Ctrl+C.
func Run(tickers []string, opts Options) error {
	s, err := audit.ResolveSettings(opts.ConfigPath, opts.BaseURL, opts.Mode)
	if err != nil {
		return err
	}
	schedule := opts.Schedule
	if schedule == "" {
		schedule = s.WatchSchedule
	}

	w, err := New(s, tickers, opts.Out)
	if err != nil {
		return err
	}

	ctx, cancel := ui.WaitForCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx, schedule); err != nil {
		return err
	}
	fmt.Fprintf(w.out, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("WatchStarted", len(w.tickers), schedule), ui.ColorReset)
	w.RunOnce(ctx)

	<-ctx.Done()
	w.Stop()
	fmt.Fprintf(w.out, "%s%s%s\n", ui.ColorGray, msges.GetUIMessage("WatchStopped", w.Runs()), ui.ColorReset)
	return nil
}
