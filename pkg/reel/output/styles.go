package output

import "github.com/charmbracelet/lipgloss"

// Color constants using the ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and sizes (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess is used for positive indicators (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for warnings (orange).
	ColorWarning = lipgloss.Color("214")

	// ColorMuted is used for secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

// Box styles for grouped content.
var (
	// HeaderBox frames the scan summary.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox frames the stage timing summary.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

// Text styles.
var (
	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	// SizeStyle is used for file sizes.
	SizeStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// DigestStyle is used for fingerprints.
	DigestStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// WarningStyle is used for warning lines.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// MutedStyle is used for secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
