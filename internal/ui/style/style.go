// Package style provides shared UI styling primitives including colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Steam  = lipgloss.Color("#66C0F4")
	Slate  = lipgloss.Color("#667085")
	Muted  = lipgloss.Color("#98A2B3")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Minus   = "-"
	Up      = "↑"
)

// Column widths used when rendering item rows.
const (
	IDWidth   = 12
	SizeWidth = 11
)
