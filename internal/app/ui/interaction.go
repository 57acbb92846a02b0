package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"
)

const defaultWidth = 96

// WaitForCancel returns a context that is canceled on Ctrl+C
func WaitForCancel(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Width is the usable panel width, clamped to [60, 120].
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	if w < 60 {
		return 60
	}
	if w > 120 {
		return 120
	}
	return w
}

// Alert shows a blocking notice. On a terminal it waits for any key;
// otherwise it writes the notice to w and returns.
func Alert(w io.Writer, message string) {
	banner := fmt.Sprintf("%s ! %s %s", ColorBgRed, message, ColorReset)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(w, banner)
		return
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintln(w, banner)
		return
	}
	defer term.Restore(fd, oldState)

	fmt.Fprintf(w, "\r\n%s  %s[press any key]%s\r\n", banner, ColorGray, ColorReset)
	b := make([]byte, 8)
	_, _ = os.Stdin.Read(b)
}

// Confirm prompts the user for a yes/no answer.
func Confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print(prompt + " (y/n): ")
		var input string
		fmt.Scanln(&input)
		return strings.ToLower(input) == "y", nil
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return false, err
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	fmt.Print(prompt + " (y/n): ")

	for {
		b := make([]byte, 1)
		_, err := os.Stdin.Read(b)
		if err != nil {
			return false, err
		}

		if b[0] == 3 { // Ctrl+C
			fmt.Print("^C\r\n")
			return false, fmt.Errorf("cancelled")
		}

		char := strings.ToLower(string(b[0]))
		if char == "y" {
			fmt.Print("y\r\n")
			return true, nil
		}
		if char == "n" {
			fmt.Print("n\r\n")
			return false, nil
		}
	}
}
