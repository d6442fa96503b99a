package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...interface{}) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// Mask hides all but the first visible characters of s.
// Values shorter than twice visible are hidden entirely. Characters are
// counted in runes, so multibyte text is never cut mid-character.
func Mask(s string, visible int) string {
	if visible < 0 {
		visible = 0
	}
	runes := []rune(s)
	if len(runes) < 2*visible || visible == 0 {
		return strings.Repeat("*", 8)
	}
	return string(runes[:visible]) + strings.Repeat("*", 8)
}

// noColor reports whether output is plain text, either because NO_COLOR
// is set or because stdout is not a terminal.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Formatters used by the commands. Without color each one falls back to the
// decoration noted beside it, so the distinction survives in plain output.
var (
	// Code: commands to run next, like `oauthvault verify`. Yellow, or backticks.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path: the vault, config and audit log locations. Yellow, or bare.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag: options such as --force or --password-stdin. Yellow, or bare.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success: the ✓ mark and completed actions. Green, or bare.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error: the ✗ mark and unlock or handshake failures. Red, or bare.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning: the ⚠ mark on inspect findings like a loose file mode. Yellow, or bare.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Info: the → mark before a follow-up hint. Cyan, or bare.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight: owner labels and masked keys. Cyan, or 'single quotes'.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted: hidden secrets and empty response bodies. Grey, or (parentheses).
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}

	// URL: the provider authorization page. Underlined blue, or <angle brackets>.
	URL = Formatter{color.New(color.FgBlue, color.Underline), "<", ">"}
)
