package agent

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bright green accent with grey help text.
var (
	colorPrimary = lipgloss.Color("#00ff9f")
	colorDim     = lipgloss.Color("#6e7681")
)

const ruleWidth = 50

type styles struct {
	title lipgloss.Style
	rule  lipgloss.Style
	help  lipgloss.Style
}

// newStyles binds the colors to w so they are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(colorPrimary),
		rule:  r.NewStyle().Foreground(colorPrimary),
		help:  r.NewStyle().Foreground(colorDim),
	}
}

func (s styles) heavyRule() string {
	return s.rule.Render(strings.Repeat("=", ruleWidth))
}

func (s styles) lightRule() string {
	return s.help.Render(strings.Repeat("-", ruleWidth))
}

// banner is printed once when the loop starts.
func (s styles) banner() string {
	lines := []string{
		s.heavyRule(),
		s.title.Render("🎙️  VOICE AGENT READY"),
		s.heavyRule(),
		s.help.Render("Press Enter to start speaking, or type 'quit' to exit."),
		s.heavyRule(),
	}
	return strings.Join(lines, "\n")
}
