package ui

import (
	"fmt"
	"io"
	"strings"
)

const AsciiArt = `
 ██████╗ ██╗   ██╗ █████╗ ███╗   ██╗████████╗     ██████╗ ██████╗ ███████╗
██╔═══██╗██║   ██║██╔══██╗████╗  ██║╚══██╔══╝    ██╔═══██╗██╔══██╗██╔════╝
██║   ██║██║   ██║███████║██╔██╗ ██║   ██║       ██║   ██║██████╔╝███████╗
██║▄▄ ██║██║   ██║██╔══██║██║╚██╗██║   ██║       ██║   ██║██╔═══╝ ╚════██║
╚██████╔╝╚██████╔╝██║  ██║██║ ╚████║   ██║       ╚██████╔╝██║     ███████║
 ╚══▀▀═╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═══╝   ╚═╝        ╚═════╝ ╚═╝     ╚══════╝
`

const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorGray   = "\033[90m" // Light gray
	ColorWhite  = "\033[97m" // White
	ColorRed    = "\033[91m" // Bright Red
	ColorGreen  = "\033[92m" // Bright Green
	ColorYellow = "\033[93m" // Bright Yellow
	ColorBlue   = "\033[94m" // Bright Blue

	ColorBgGreen = "\033[42;30m" // black on green
	ColorBgRed   = "\033[41;97m" // white on red
	ColorBgBlue  = "\033[44;97m" // white on blue
)

// PrintGradientAsciiArt prints the banner with a white to blue gradient.
func PrintGradientAsciiArt(w io.Writer) {
	lines := strings.Split(strings.Trim(AsciiArt, "\n"), "\n")
	for i, line := range lines {
		ratio := float64(i) / float64(len(lines)-1)

		// White (255,255,255) -> Blue (37,99,235)
		r := int(255 - (255-37)*ratio)
		g := int(255 - (255-99)*ratio)
		b := int(255 - (255-235)*ratio)

		fmt.Fprintf(w, "\033[38;2;%d;%d;%dm%s\033[0m\n", r, g, b, line)
	}
}

// Paint wraps s in color when enabled.
func Paint(enabled bool, color, s string) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ColorReset
}
