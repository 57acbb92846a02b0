package interactive

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MOYARU/quantops/internal/app/ui"
	"github.com/MOYARU/quantops/internal/config"
	msges "github.com/MOYARU/quantops/internal/messages"
	"github.com/MOYARU/quantops/internal/panel"
)

// RunInteractiveMode runs the input bar until exit or Ctrl+C.
func RunInteractiveMode(cmdObj *cobra.Command, s config.Settings) {
	ui.PrintGradientAsciiArt(os.Stdout)

	helpText := cmdObj.Long
	helpText = strings.Replace(helpText, ui.AsciiArt, "", 1)
	fmt.Println(helpText)

	notifier := panel.NotifierFunc(func(message string) {
		ui.Alert(os.Stderr, message)
	})
	sh, err := NewShell(s, notifier, os.Stdout)
	if err != nil {
		fmt.Printf("%s%v%s\n", ui.ColorRed, err, ui.ColorReset)
		return
	}
	sh.color = true
	sh.width = ui.Width()
	sh.confirm = ui.Confirm

	fmt.Println()
	fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage("Backend", sh.session.Client.BaseURL()), ui.ColorReset)
	fmt.Printf("%s%s%s\n", ui.ColorGray, msges.GetUIMessage("InteractiveWelcome"), ui.ColorReset)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("Failed to enter raw mode:", err)
		return
	}
	defer func() { term.Restore(fd, oldState) }()

	ctx := context.Background()
	editor := &lineEditor{}
	readBuf := make([]byte, 1024)

	for {
		fmt.Print("\r\033[K" + getPrompt(sh.Snapshot()) + editor.display())
		if back := editor.cursorBack(); back > 0 {
			fmt.Printf("\033[%dD", back)
		}

		n, err := os.Stdin.Read(readBuf)
		if err != nil {
			break
		}

		action, line := editor.feed(readBuf[:n])
		switch action {
		case actInterrupt:
			term.Restore(fd, oldState)
			fmt.Println()
			return
		case actToggle:
			term.Restore(fd, oldState)
			fmt.Println()
			sh.ToggleMode()
			oldState, _ = term.MakeRaw(fd)
		case actSubmit:
			term.Restore(fd, oldState)
			fmt.Println()
			if sh.Execute(ctx, line) {
				return
			}
			oldState, _ = term.MakeRaw(fd)
		}
	}
}

func getPrompt(s panel.Snapshot) string {
	return fmt.Sprintf("%s[%s] QUERY > %s", ui.ColorGray, s.Mode.Label(), ui.ColorReset)
}
