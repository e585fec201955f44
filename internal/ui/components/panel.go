package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
)

// Panel represents a UI panel
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	// Create border style
	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.RoundedBorder())

	// Add title if present
	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}

// FieldList renders the filterable fields of a catalog, one per line
func FieldList(cat filter.Catalog) string {
	if len(cat) == 0 {
		return "(no filterable fields)"
	}
	var b strings.Builder
	for _, name := range cat.Names() {
		f := cat[name]
		line := fmt.Sprintf("%s  %s", name, f.Type)
		if f.Format != "" {
			line += " " + f.Format
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
