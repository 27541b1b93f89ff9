package console

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ColorMode controls when styled output is emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiRed       = "\x1b[31m"
	ansiGreen     = "\x1b[32m"
	ansiYellow    = "\x1b[33m"
	ansiClearLine = "\r\x1b[2K"
)

// Console writes styled lines for the interactive surface. Methods are
// safe for concurrent use, each call emits atomically.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	colored bool
}

func New(w io.Writer, mode ColorMode) *Console {
	tty := isTerminal(w)

	colored := false
	switch mode {
	case ColorAlways:
		colored = true
	case ColorNever:
		colored = false
	default:
		colored = tty && os.Getenv("NO_COLOR") == ""
	}

	return &Console{w: w, tty: tty, colored: colored}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// Printf writes a formatted line.
func (c *Console) Printf(format string, args ...any) {
	c.write(fmt.Sprintf(format, args...) + "\n")
}

// Successf writes a formatted line styled as a success.
func (c *Console) Successf(format string, args ...any) {
	c.write(c.Green(fmt.Sprintf(format, args...)) + "\n")
}

// Errorf writes a formatted line styled as an error.
func (c *Console) Errorf(format string, args ...any) {
	c.write(c.Red(fmt.Sprintf(format, args...)) + "\n")
}

// Warnf writes a formatted line styled as a warning.
func (c *Console) Warnf(format string, args ...any) {
	c.write(c.Yellow(fmt.Sprintf(format, args...)) + "\n")
}

// Prompt writes s verbatim, without a trailing newline.
func (c *Console) Prompt(s string) {
	c.write(s)
}

func (c *Console) Green(s string) string  { return c.paint(ansiGreen, s) }
func (c *Console) Red(s string) string    { return c.paint(ansiRed, s) }
func (c *Console) Yellow(s string) string { return c.paint(ansiYellow, s) }
func (c *Console) Bold(s string) string   { return c.paint(ansiBold, s) }

func (c *Console) paint(code, s string) string {
	if !c.colored {
		return s
	}
	return code + s + ansiReset
}

func (c *Console) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, s)
}
