package theme

import "github.com/charmbracelet/lipgloss"

// Colors defines all the colors used in the application
type Colors struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color

	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color

	SelectionBg lipgloss.Color
	SelectionFg lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

type Theme struct {
	Name   string
	Colors Colors

	Title           lipgloss.Style
	BorderFocused   lipgloss.Style
	BorderUnfocused lipgloss.Style

	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style

	TreeItem     lipgloss.Style
	TreeSelected lipgloss.Style

	StatusBar lipgloss.Style
}

// Current holds the active theme
var Current *Theme

func init() {
	Current = DefaultTheme()
}

// SetTheme changes the current theme
func SetTheme(t *Theme) {
	Current = t
}

func buildStyles(name string, c Colors) *Theme {
	t := &Theme{
		Name:   name,
		Colors: c,
	}

	t.Title = lipgloss.NewStyle().
		Foreground(c.Foreground).
		Background(c.Primary).
		Bold(true)

	t.BorderFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.BorderFocused)

	t.BorderUnfocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.BorderUnfocused)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(c.Foreground).
		Background(c.Primary).
		Bold(true)

	t.TableCell = lipgloss.NewStyle().
		Foreground(c.Foreground)

	t.TableSelected = lipgloss.NewStyle().
		Foreground(c.SelectionFg).
		Background(c.SelectionBg)

	t.TreeItem = lipgloss.NewStyle().
		Foreground(c.ForegroundDim)

	t.TreeSelected = lipgloss.NewStyle().
		Foreground(c.SelectionFg).
		Background(c.SelectionBg)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(c.ForegroundDim)

	return t
}

// DefaultTheme returns the default purple theme
func DefaultTheme() *Theme {
	return buildStyles("default", Colors{
		Foreground:      lipgloss.Color("#FAFAFA"),
		ForegroundDim:   lipgloss.Color("#888888"),
		Primary:         lipgloss.Color("#7D56F4"),
		Accent:          lipgloss.Color("#9D7BFF"),
		BorderFocused:   lipgloss.Color("#7D56F4"),
		BorderUnfocused: lipgloss.Color("#3C3C3C"),
		SelectionBg:     lipgloss.Color("#5A4FCF"),
		SelectionFg:     lipgloss.Color("#FAFAFA"),
		Success:         lipgloss.Color("#50FA7B"),
		Warning:         lipgloss.Color("#FFB86C"),
		Error:           lipgloss.Color("#FF5555"),
		Info:            lipgloss.Color("#8BE9FD"),
	})
}

// DraculaTheme returns the Dracula color theme
func DraculaTheme() *Theme {
	return buildStyles("dracula", Colors{
		Foreground:      lipgloss.Color("#f8f8f2"),
		ForegroundDim:   lipgloss.Color("#6272a4"),
		Primary:         lipgloss.Color("#bd93f9"),
		Accent:          lipgloss.Color("#8be9fd"),
		BorderFocused:   lipgloss.Color("#bd93f9"),
		BorderUnfocused: lipgloss.Color("#44475a"),
		SelectionBg:     lipgloss.Color("#44475a"),
		SelectionFg:     lipgloss.Color("#f8f8f2"),
		Success:         lipgloss.Color("#50fa7b"),
		Warning:         lipgloss.Color("#ffb86c"),
		Error:           lipgloss.Color("#ff5555"),
		Info:            lipgloss.Color("#8be9fd"),
	})
}

// NordTheme returns the Nord color theme
func NordTheme() *Theme {
	return buildStyles("nord", Colors{
		Foreground:      lipgloss.Color("#eceff4"),
		ForegroundDim:   lipgloss.Color("#4c566a"),
		Primary:         lipgloss.Color("#5e81ac"),
		Accent:          lipgloss.Color("#88c0d0"),
		BorderFocused:   lipgloss.Color("#88c0d0"),
		BorderUnfocused: lipgloss.Color("#3b4252"),
		SelectionBg:     lipgloss.Color("#434c5e"),
		SelectionFg:     lipgloss.Color("#eceff4"),
		Success:         lipgloss.Color("#a3be8c"),
		Warning:         lipgloss.Color("#ebcb8b"),
		Error:           lipgloss.Color("#bf616a"),
		Info:            lipgloss.Color("#81a1c1"),
	})
}

// GetThemeByName returns a theme by its name
func GetThemeByName(name string) *Theme {
	switch name {
	case "dracula":
		return DraculaTheme()
	case "nord":
		return NordTheme()
	default:
		return DefaultTheme()
	}
}
