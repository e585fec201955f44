package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"F1", "Toggle help"},
		{"Ctrl+C", "Quit application"},
		{"Esc", "Close help or quit"},
	}
}

// GetConsoleKeys returns filter console key bindings
func GetConsoleKeys() []KeyBinding {
	return []KeyBinding{
		{"Enter", "Run filter"},
		{"Ctrl+Y", "Copy WHERE clause"},
		{"↑/↓", "Move through rows"},
		{"PgUp/PgDn", "Page through rows"},
	}
}

// GetSyntaxKeys describes the filter value syntax
func GetSyntaxKeys() []KeyBinding {
	not := filter.NotMarker.Token()
	null := filter.Null.Token()
	return []KeyBinding{
		{"field=value", "Equals (text ignores case), " + filter.Equals.Token() + "value also works"},
		{not, "Negate, e.g. " + not + "5"},
		{null, "Is null, " + not + null + " for is not null"},
		{filter.LessThan.Token() + " / " + filter.GreaterThan.Token(), "Less / greater than"},
		{"a" + filter.Between.Token() + "b", "Between a and b inclusive"},
		{filter.Like.Token() + "*x*", "Like, * matches anything"},
		{"a" + filter.OrSeparator + "b", "Either a or b"},
		{"page size order sort", "Paging, e.g. order=id&sort=asc"},
	}
}

func renderSection(b *strings.Builder, title string, keys []KeyBinding, sectionStyle, keyStyle, descStyle lipgloss.Style) {
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	for _, kb := range keys {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(kb.Key))
		b.WriteString(descStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(22)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("lazyfilter - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	renderSection(&b, "Global", GetGlobalKeys(), sectionStyle, keyStyle, descStyle)
	renderSection(&b, "Console", GetConsoleKeys(), sectionStyle, keyStyle, descStyle)
	renderSection(&b, "Filter syntax", GetSyntaxKeys(), sectionStyle, keyStyle, descStyle)

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press F1 or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 0)).
		Height(max(height-4, 0))

	return boxStyle.Render(b.String())
}
