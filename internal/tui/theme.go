package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the overlay.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	// Particle colors from freshest to oldest.
	Sparks [3]lipgloss.Color
}

var (
	ThemeSummit = Theme{
		Name:      "summit",
		Primary:   lipgloss.Color("#ff6b35"),
		Secondary: lipgloss.Color("#f7c59f"),
		Accent:    lipgloss.Color("#ffd23f"),
		Text:      lipgloss.Color("#fffaf0"),
		Muted:     lipgloss.Color("#6b6b7b"),
		Success:   lipgloss.Color("#3bceac"),
		Sparks:    [3]lipgloss.Color{"#fff3b0", "#ffb347", "#b5523b"},
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Sparks:    [3]lipgloss.Color{"#ccffcc", "#00ff00", "#007700"},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Sparks:    [3]lipgloss.Color{"#ffffff", "#bbbbbb", "#777777"},
	}

	Themes = []Theme{ThemeSummit, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to summit.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSummit
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	label  lipgloss.Style
	muted  lipgloss.Style
	thumb  lipgloss.Style
	fill   lipgloss.Style
	border lipgloss.Style
	flash  lipgloss.Style
	done   lipgloss.Style
	title  lipgloss.Style
	text   lipgloss.Style
	button lipgloss.Style
	toast  lipgloss.Style
	sparks [3]lipgloss.Style
}

func newStyles(t Theme) styles {
	s := styles{
		label:  lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		thumb:  lipgloss.NewStyle().Foreground(t.Accent),
		fill:   lipgloss.NewStyle().Foreground(t.Primary),
		border: lipgloss.NewStyle().Foreground(t.Muted),
		flash:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		done:   lipgloss.NewStyle().Foreground(t.Success),
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		text:   lipgloss.NewStyle().Foreground(t.Secondary),
		button: lipgloss.NewStyle().Bold(true).Foreground(t.Text).Background(t.Primary).Padding(0, 2),
		toast:  lipgloss.NewStyle().Italic(true).Foreground(t.Accent),
	}
	for i, c := range t.Sparks {
		s.sparks[i] = lipgloss.NewStyle().Foreground(c)
	}
	return s
}
