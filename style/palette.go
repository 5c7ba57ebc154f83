package style

import "github.com/charmbracelet/lipgloss"

// Base colors of the interface.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")

	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Green    = lipgloss.Color("#a6e3a1")
	Teal     = lipgloss.Color("#94e2d5")
	Blue     = lipgloss.Color("#89b4fa")
	Lavender = lipgloss.Color("#b4befe")
)

// Roles.
var (
	AccentColor = Mauve
	ErrorColor  = Red
	HiRed       = Red

	// Picker title tags.
	QualityTag = Peach
	CaptionTag = Teal
	SeasonTag  = Blue
	EpisodeTag = Lavender
)
