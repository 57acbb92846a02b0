package messages

import (
	"fmt"
)

// CommandHelp is one line of the interactive help listing.
type CommandHelp struct {
	Usage       string
	Description string
}

var interactiveCommands = []CommandHelp{
	{Usage: "<ticker>", Description: "Run an audit for the ticker (e.g. INFY, TCS, RELIANCE)"},
	{Usage: "mode short | long", Description: "Switch trade zones between DAILY and MONTHLY"},
	{Usage: "<Tab>", Description: "Toggle the trade zone horizon"},
	{Usage: "save json | html | pdf", Description: "Export the panel currently on screen"},
	{Usage: "settings show | set <key> <value> | save [path]", Description: "Inspect or change settings"},
	{Usage: "stats", Description: "Show request counters for this session"},
	{Usage: "help", Description: "Show this help"},
	{Usage: "clear / cls", Description: "Clear the screen"},
	{Usage: "exit / quit", Description: "Leave interactive mode"},
}

// InteractiveCommands returns the help listing in display order.
func InteractiveCommands() []CommandHelp {
	out := make([]CommandHelp, len(interactiveCommands))
	copy(out, interactiveCommands)
	return out
}

// uiMessages holds UI strings.
var uiMessages = map[string]string{
	"HTMLReportTitle":  "QuantOps Audit",
	"HTMLPrice":        "Institutional Price LTP",
	"HTMLSector":       "Sector Industry",
	"HTMLValuation":    "Valuation Matrix",
	"HTMLStockPE":      "Stock P/E",
	"HTMLSectorPE":     "Sector Avg P/E",
	"HTMLZones":        "Strategic Trade Zones",
	"HTMLVerdict":      "Final Verdict",
	"HTMLNews":         "Headlines",
	"JSONReportSaved":  "JSON Report saved: %s",
	"HTMLReportSaved":  "HTML Report saved: %s",
	"PDFReportSaved":   "PDF Report saved: %s",
	"JSONReportFailed": "Failed to save JSON report: %v",
	"HTMLReportFailed": "Failed to save HTML report: %v",
	"PDFReportFailed":  "Failed to save PDF report: %v",
	"NothingToSave":    "Nothing to save yet. Run an audit first.",

	"AuditStarting":  "Auditing %s (%s)",
	"AuditFailed":    "Audit failed (%s): %v",
	"AuditNoData":    "No data for %s: %s",
	"AuditCancelled": "Audit cancelled.",
	"Backend":        "Backend: %s",
	"StatusReady":    "Status: Ready",
	"ModeSwitched":   "Trade zones: %s",

	"WatchStarted":    "Watching %d ticker(s) on schedule %q. Press Ctrl+C to stop.",
	"WatchTick":       "[%s] %s",
	"WatchStopped":    "Watch stopped after %d run(s).",
	"WatchNoTickers":  "Watch needs at least one ticker.",
	"StatsLine":       "Requests: %d  Failures: %d  Elapsed: %s  Budget left: %s",
	"SettingsSaved":   "Saved settings to %s",
	"SettingsUpdated": "Updated %s",
	"SettingsFailed":  "Failed to update settings: %v",

	"InteractiveWelcome":          "Welcome to QuantOps Interactive Mode. Type a ticker and press Enter, or 'help' for commands.",
	"InteractiveExit":             "Exiting program.",
	"InteractiveHelp":             "Available commands:",
	"InteractiveErrorUnknown":     "Unknown command: %s",
	"InteractiveErrorUnknownFlag": "Unknown flag: %s",
	"InteractiveUsageMode":        "Usage: mode short | long",
	"InteractiveUsageSave":        "Usage: save json | html | pdf",
	"InteractiveUsageSettings":    "Usage: settings show | set <key> <value> | save [path]",
	"AskSaveHTML":                 "Do you want to save the HTML report?",
}

func GetUIMessage(id string, args ...interface{}) string {
	format, ok := uiMessages[id]
	if !ok || format == "" {
		return id
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
