// ABOUTME: Terminal styles shared by the CLI commands
// ABOUTME: Status lines, headings, and importance stars rendered with lipgloss
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors used throughout the CLI.
var (
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorGreen  = lipgloss.Color("#5FD75F")
	ColorYellow = lipgloss.Color("#FFD75F")
	ColorCyan   = lipgloss.Color("#5FD7FF")
	ColorGray   = lipgloss.Color("#808080")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StarStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)
)

// Success prints a green check line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}

// Failure prints a red cross line.
func Failure(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrorStyle.Render("❌ "+fmt.Sprintf(format, args...)))
}

// Tip prints a dimmed hint line.
func Tip(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, DimStyle.Render("💡 "+fmt.Sprintf(format, args...)))
}

// Heading prints a bold title followed by a rule of the same width.
func Heading(w io.Writer, title string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	fmt.Fprintln(w, DimStyle.Render(strings.Repeat("=", Width(title))))
}

// Stars renders an importance level as filled and empty stars.
func Stars(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}
	return StarStyle.Render(strings.Repeat("★", level)) + DimStyle.Render(strings.Repeat("☆", 5-level))
}
