//go:build !js && !wasm

// Package styles provides the color and border definitions pkg/console uses
// to render CompilerError, table, and tree output. Colors use
// lipgloss.AdaptiveColor so output stays readable on both light and dark
// terminal backgrounds.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorError = lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}

	ColorWarning = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FFB86C"}

	ColorInfo = lipgloss.AdaptiveColor{Light: "#2980B9", Dark: "#8BE9FD"}

	ColorPurple = lipgloss.AdaptiveColor{Light: "#8E44AD", Dark: "#BD93F9"}

	ColorComment = lipgloss.AdaptiveColor{Light: "#6C7A89", Dark: "#6272A4"}

	ColorForeground = lipgloss.AdaptiveColor{Light: "#2C3E50", Dark: "#F8F8F2"}

	ColorBackground = lipgloss.AdaptiveColor{Light: "#ECF0F1", Dark: "#282A36"}

	ColorBorder = lipgloss.AdaptiveColor{Light: "#BDC3C7", Dark: "#44475A"}
)

// RoundedBorder is the border used for tables.
var RoundedBorder = lipgloss.RoundedBorder()

// Error style for error messages - bold red.
var Error = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

// Warning style for warning messages - bold orange.
var Warning = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

// Info style for informational messages - bold cyan.
var Info = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)

// FilePath style for file:line:column locations - bold purple.
var FilePath = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)

// LineNumber style for line numbers in error context - muted.
var LineNumber = lipgloss.NewStyle().Foreground(ColorComment)

// ContextLine style for source code context lines.
var ContextLine = lipgloss.NewStyle().Foreground(ColorForeground)

// Highlight style for the offending error line - inverted colors.
var Highlight = lipgloss.NewStyle().Background(ColorError).Foreground(ColorBackground)

// TableHeader style for table header row - bold muted.
var TableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorComment)

// TableCell style for regular table cells.
var TableCell = lipgloss.NewStyle().Foreground(ColorForeground)

// TableTitle style for table titles - bold purple.
var TableTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)

// TableBorder style for table borders.
var TableBorder = lipgloss.NewStyle().Foreground(ColorBorder)

// TreeEnumerator style for tree branch characters (├── └──).
var TreeEnumerator = lipgloss.NewStyle().Foreground(ColorBorder)

// TreeNode style for tree node content.
var TreeNode = lipgloss.NewStyle().Foreground(ColorForeground)
