package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MOYARU/quantops/internal/app/audit"
	"github.com/MOYARU/quantops/internal/app/output"
	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/config"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
	"github.com/MOYARU/quantops/internal/report"
	appver "github.com/MOYARU/quantops/internal/version"
)

const defaultSettingsPath = ".quantops.yaml"

// Shell executes interactive input lines against one audit session.
type Shell struct {
	settings  config.Settings
	session   *audit.Session
	notifier  panel.Notifier
	out       io.Writer
	color     bool
	width     int
	outputDir string

	// confirm asks before an HTML export; nil skips the question.
	confirm func(prompt string) (bool, error)
}

func NewShell(s config.Settings, notifier panel.Notifier, out io.Writer) (*Shell, error) {
	sh := &Shell{
		settings:  s,
		notifier:  notifier,
		out:       out,
		width:     100,
		outputDir: ".",
	}
	if err := sh.rebuild(); err != nil {
		return nil, err
	}
	return sh, nil
}

func (sh *Shell) rebuild() error {
	mode := report.DisplayMode("")
	if sh.session != nil {
		mode = sh.session.Panel.Snapshot().Mode
	}
	session, err := audit.NewSession(sh.settings, sh.notifier, appver.ClientUserAgent())
	if err != nil {
		return err
	}
	if mode != "" {
		session.Panel.SetMode(mode)
	}
	sh.session = session
	return nil
}

func (sh *Shell) Snapshot() panel.Snapshot {
	return sh.session.Panel.Snapshot()
}

func (sh *Shell) printf(color, format string, args ...interface{}) {
	fmt.Fprintf(sh.out, "%s%s%s\n", color, fmt.Sprintf(format, args...), ui.ColorReset)
}

func (sh *Shell) printPanel() {
	output.PrintPanel(sh.out, sh.Snapshot(), sh.color, sh.width)
}

// ToggleMode flips the zone horizon and redraws a held result.
func (sh *Shell) ToggleMode() report.DisplayMode {
	m := sh.session.Panel.ToggleMode()
	if sh.Snapshot().Result != nil {
		sh.printPanel()
	} else {
		sh.printf(ui.ColorGray, "%s", msges.GetUIMessage("ModeSwitched", m.Label()))
	}
	return m
}

// Execute runs one input line. It reports true when the shell should exit.
func (sh *Shell) Execute(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "exit", "quit":
		sh.printf(ui.ColorGray, "%s", msges.GetUIMessage("InteractiveExit"))
		return true
	case "clear", "cls":
		fmt.Fprint(sh.out, "\033[H\033[2J")
	case "help":
		sh.printHelp()
	case "mode":
		sh.handleMode(args)
	case "save":
		sh.handleSave(args)
	case "settings":
		sh.handleSettings(args)
	case "stats":
		sh.printStats()
	case "audit":
		if len(args) != 1 {
			sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveErrorUnknown", input))
			return false
		}
		sh.runAudit(ctx, args[0])
	default:
		if len(parts) > 1 {
			sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveErrorUnknown", command))
			return false
		}
		sh.runAudit(ctx, parts[0])
	}
	return false
}

func (sh *Shell) runAudit(ctx context.Context, ticker string) {
	_, err := sh.session.Audit(ctx, ticker)
	if errors.Is(err, panel.ErrSuperseded) {
		return
	}
	// The offline notice has already been shown; the held panel stays as is.
	if err != nil {
		return
	}
	sh.printPanel()
}

func (sh *Shell) printHelp() {
	sh.printf(ui.ColorWhite, "%s", msges.GetUIMessage("InteractiveHelp"))
	for _, c := range msges.InteractiveCommands() {
		sh.printf(ui.ColorGray, "  %-50s %s", c.Usage, c.Description)
	}
}

func (sh *Shell) handleMode(args []string) {
	if len(args) != 1 {
		sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveUsageMode"))
		return
	}
	m, err := report.ParseDisplayMode(args[0])
	if err != nil {
		sh.printf(ui.ColorRed, "%v", err)
		return
	}
	sh.session.Panel.SetMode(m)
	if sh.Snapshot().Result != nil {
		sh.printPanel()
		return
	}
	sh.printf(ui.ColorGray, "%s", msges.GetUIMessage("ModeSwitched", m.Label()))
}

func (sh *Shell) handleSave(args []string) {
	if len(args) != 1 {
		sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveUsageSave"))
		return
	}
	kind, err := audit.ParseExportKind(args[0])
	if err != nil {
		sh.printf(ui.ColorRed, "%v", err)
		return
	}
	if kind == audit.ExportHTML && sh.confirm != nil {
		ok, err := sh.confirm(msges.GetUIMessage("AskSaveHTML"))
		if err != nil || !ok {
			fmt.Fprintln(sh.out)
			return
		}
	}
	if _, err := sh.session.Export(sh.out, kind, sh.outputDir); err != nil {
		if errors.Is(err, output.ErrNothingToExport) {
			sh.printf(ui.ColorYellow, "%s", msges.GetUIMessage("NothingToSave"))
			return
		}
		sh.printf(ui.ColorRed, "%v", err)
	}
}

func (sh *Shell) printStats() {
	st := sh.session.Client.Stats()
	budget := "unlimited"
	if left := sh.session.Client.RemainingBudget(); left >= 0 {
		budget = strconv.FormatInt(left, 10)
	}
	sh.printf(ui.ColorGray, "%s", msges.GetUIMessage("StatsLine", st.Requests, st.Failures, st.Elapsed.Round(time.Millisecond), budget))
}

func (sh *Shell) handleSettings(args []string) {
	if len(args) == 0 {
		sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveUsageSettings"))
		return
	}

	switch args[0] {
	case "show":
		s := sh.settings
		sh.printf(ui.ColorGreen, "Settings:")
		fmt.Fprintf(sh.out, " - base_url: %s\n", s.BaseURL)
		fmt.Fprintf(sh.out, " - timeout_seconds: %d\n", s.TimeoutSeconds)
		fmt.Fprintf(sh.out, " - default_mode: %s\n", s.DefaultMode)
		fmt.Fprintf(sh.out, " - rate_limit: %d\n", s.RateLimit)
		fmt.Fprintf(sh.out, " - max_requests: %d\n", s.MaxRequests)
		fmt.Fprintf(sh.out, " - watch_schedule: %s\n", s.WatchSchedule)
		fmt.Fprintf(sh.out, " - log_level: %s\n", s.LogLevel)
		fmt.Fprintf(sh.out, " - log_file: %s\n", s.LogFile)
		fmt.Fprintf(sh.out, " - redaction_patterns: %s\n", strings.Join(s.RedactionPatterns, ", "))
	case "set":
		if len(args) < 3 {
			sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveUsageSettings"))
			return
		}
		if err := sh.updateSetting(args[1], strings.Join(args[2:], " ")); err != nil {
			sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("SettingsFailed", err))
			return
		}
		sh.printf(ui.ColorGreen, "%s", msges.GetUIMessage("SettingsUpdated", args[1]))
	case "save":
		path := defaultSettingsPath
		if len(args) > 1 {
			path = args[1]
		}
		if err := config.WriteSettings(path, sh.settings); err != nil {
			sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("SettingsFailed", err))
			return
		}
		sh.printf(ui.ColorGreen, "%s", msges.GetUIMessage("SettingsSaved", path))
	default:
		sh.printf(ui.ColorRed, "%s", msges.GetUIMessage("InteractiveErrorUnknown", "settings "+args[0]))
	}
}

// updateSetting changes one key in memory and rebuilds the session so the
// client picks it up. The panel's held result is dropped.
func (sh *Shell) updateSetting(key, value string) error {
	s := sh.settings
	switch key {
	case "base_url":
		s.BaseURL = value
	case "timeout_seconds", "rate_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer", key)
		}
		if key == "rate_limit" {
			s.RateLimit = n
		} else {
			s.TimeoutSeconds = n
		}
	case "max_requests":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("max_requests must be an integer")
		}
		s.MaxRequests = n
	case "default_mode":
		s.DefaultMode = value
	case "watch_schedule":
		s.WatchSchedule = value
	case "log_level":
		s.LogLevel = value
	case "redaction_patterns":
		s.RedactionPatterns = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				s.RedactionPatterns = append(s.RedactionPatterns, p)
			}
		}
	default:
		return fmt.Errorf("unknown settings key: %s", key)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	prev := sh.settings
	sh.settings = s
	if err := sh.rebuild(); err != nil {
		sh.settings = prev
		return err
	}
	return nil
}
