package interactive

import (
	"strings"
	"unicode"
)

type keyAction int

const (
	actNone keyAction = iota
	actSubmit
	actInterrupt
	actToggle
)

// lineEditor is the input bar buffer with cursor and history.
type lineEditor struct {
	buf          []rune
	cursor       int
	history      []string
	historyIndex int
}

// feed applies one read from the terminal. On Enter it returns actSubmit with
// the trimmed line and discards whatever followed in the same read.
func (e *lineEditor) feed(p []byte) (keyAction, string) {
	if len(p) >= 3 && p[0] == 27 && p[1] == 91 {
		switch p[2] {
		case 65: // Up Arrow
			if e.historyIndex > 0 {
				e.historyIndex--
				e.set(e.history[e.historyIndex])
			}
		case 66: // Down Arrow
			if e.historyIndex < len(e.history)-1 {
				e.historyIndex++
				e.set(e.history[e.historyIndex])
			} else {
				e.historyIndex = len(e.history)
				e.set("")
			}
		case 68: // Left Arrow
			if e.cursor > 0 {
				e.cursor--
			}
		case 67: // Right Arrow
			if e.cursor < len(e.buf) {
				e.cursor++
			}
		}
		return actNone, ""
	}

	for _, char := range []rune(string(p)) {
		switch char {
		case 3: // Ctrl+C
			return actInterrupt, ""
		case 9: // Tab
			return actToggle, ""
		case 13, 10: // Enter
			line := strings.TrimSpace(string(e.buf))
			if line != "" {
				e.history = append(e.history, line)
			}
			e.historyIndex = len(e.history)
			e.set("")
			return actSubmit, line
		case 127, 8: // Backspace
			if e.cursor > 0 {
				e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
				e.cursor--
			}
		default:
			if char >= 32 {
				e.buf = append(e.buf, 0)
				copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
				e.buf[e.cursor] = char
				e.cursor++
			}
		}
	}
	return actNone, ""
}

func (e *lineEditor) set(s string) {
	e.buf = []rune(s)
	e.cursor = len(e.buf)
}

// display is the buffer as shown in the input bar: uppercased.
func (e *lineEditor) display() string {
	return strings.ToUpper(string(e.buf))
}

// cursorBack is how many columns the cursor sits left of the line end.
func (e *lineEditor) cursorBack() int {
	n := 0
	for _, r := range e.buf[e.cursor:] {
		n += runeWidth(unicode.ToUpper(r))
	}
	return n
}

func runeWidth(r rune) int {
	if r >= 0x1100 && (r <= 0x115f || r == 0x2329 || r == 0x232a ||
		(r >= 0x2e80 && r <= 0xa4cf && r != 0x303f) ||
		(r >= 0xac00 && r <= 0xd7a3) ||
		(r >= 0xf900 && r <= 0xfaff) ||
		(r >= 0xfe10 && r <= 0xfe19) ||
		(r >= 0xfe30 && r <= 0xfe6f) ||
		(r >= 0xff00 && r <= 0xff60) ||
		(r >= 0xffe0 && r <= 0xffe6)) {
		return 2
	}
	return 1
}
