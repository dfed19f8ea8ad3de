package cli

import (
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
	UseColor   bool
}

// NewTerminal creates a new Terminal instance. Color is disabled when
// stdout is not a terminal or NO_COLOR is set.
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && !noColor,
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// StatusColor returns the color for a moderation status
func StatusColor(status moderation.Status) string {
	switch status {
	case moderation.StatusApproved:
		return ColorGreen
	case moderation.StatusPending:
		return ColorYellow
	case moderation.StatusRejected:
		return ColorRed
	default:
		return ColorGray
	}
}

// statusBanner is the colored first line printed above table output
func statusBanner(status moderation.Status, score int) string {
	t := NewTerminal()
	label := t.Color(StatusColor(status), string(status))
	return label + t.Color(ColorGray, " · trust score ") + t.Color(StatusColor(status), strconv.Itoa(score)+"/100")
}
