package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Phase colors
const (
	ColorDraft  Color = "3" // Yellow
	ColorPublic Color = "8" // Gray
)

// UI semantic colors
const (
	ColorCurrent Color = "2"   // Green - working copy parent
	ColorError   Color = "196" // Bright red
	ColorMuted   Color = "241" // Gray - secondary text
	ColorNormal  Color = "250" // Default text
	ColorSubtle  Color = "245" // Light gray - labels
)

// File change colors
const (
	ColorAdditions Color = "2" // Green
	ColorCopies    Color = "6" // Cyan
	ColorDeletions Color = "1" // Red
	ColorModified  Color = "4" // Blue
)
