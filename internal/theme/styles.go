package theme

import "github.com/charmbracelet/lipgloss"

// Main styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Commit styles
var (
	CurrentMarkerStyle = lipgloss.NewStyle().
				Foreground(ColorCurrent).
				Bold(true)

	DraftHashStyle = lipgloss.NewStyle().
			Foreground(ColorDraft)

	EnumeratorStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginRight(1)

	PublicHashStyle = lipgloss.NewStyle().
			Foreground(ColorPublic)
)

// File change styles
var (
	AddedStyle = lipgloss.NewStyle().
			Foreground(ColorAdditions)

	CopiedStyle = lipgloss.NewStyle().
			Foreground(ColorCopies)

	DeletedStyle = lipgloss.NewStyle().
			Foreground(ColorDeletions)

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(ColorModified)
)
