package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// IntentColor returns the style used for replies of the given intent.
func IntentColor(in domain.Intent) lipgloss.Style {
	switch in {
	case domain.IntentPayment:
		return StyleBlue
	case domain.IntentClaim:
		return StyleYellow
	case domain.IntentSOP:
		return StylePurple
	case domain.IntentVerify:
		return StyleGreen
	default:
		return StyleFg
	}
}

// VerifiedBadge renders the session's identity state, e.g. "● VERIFIED John Doe".
func VerifiedBadge(v domain.Verification) string {
	if !v.OK {
		return StyleYellow.Render("○ UNVERIFIED")
	}
	return StyleGreen.Render("● VERIFIED") + " " + StyleFg.Render(v.DisplayName())
}

// ModeBadge names the agent mode.
func ModeBadge(mode domain.AgentMode) string {
	switch mode {
	case domain.ModeSupervisor:
		return StylePurple.Render("◆ SUPERVISOR") + Dim(" · replies are reviewed")
	case domain.ModeLLM:
		return StyleBlue.Render("◆ LLM") + Dim(" · model picks the tool")
	default:
		return StyleGreen.Render("◆ RULE") + Dim(" · keyword routing")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
