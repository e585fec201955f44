package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyfilter/internal/config"
	"github.com/rebeliceyang/lazyfilter/internal/service"
	"github.com/rebeliceyang/lazyfilter/internal/ui/components"
	"github.com/rebeliceyang/lazyfilter/internal/ui/help"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

const (
	fieldsPanelWidth = 28
	runTimeout       = 30 * time.Second
)

// App is the main application model
type App struct {
	svc      *service.Service
	table    string
	theme    theme.Theme
	width    int
	height   int
	showHelp bool

	console     *components.FilterConsole
	fieldsPanel components.Panel
}

// New creates a console application for table. initialQuery pre-fills the input
func New(cfg *config.Config, svc *service.Service, table, initialQuery string) *App {
	// Load theme
	themeName := "default"
	if cfg != nil && cfg.UI.Theme != "" {
		themeName = cfg.UI.Theme
	}
	th := theme.GetTheme(themeName)

	a := &App{
		svc:    svc,
		table:  table,
		theme:  th,
		width:  100,
		height: 30,
		fieldsPanel: components.Panel{
			Title: "Fields",
			Style: lipgloss.NewStyle().BorderForeground(th.Border),
		},
	}
	a.console = components.NewFilterConsole(th, table, a.preview)
	if initialQuery != "" {
		a.console.SetQuery(initialQuery)
	}

	if cat, err := svc.Catalog(context.Background(), table); err == nil {
		a.fieldsPanel.Content = components.FieldList(cat)
	} else {
		a.fieldsPanel.Content = err.Error()
	}

	a.updateDimensions()
	return a
}

func (a *App) preview(q string) (*service.Prepared, error) {
	req, page, err := service.ParseQuery(q)
	if err != nil {
		return nil, err
	}
	return a.svc.Prepare(context.Background(), a.table, req, page)
}

func (a *App) runFilter(q string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		req, page, err := service.ParseQuery(q)
		if err != nil {
			return components.FilterResultMsg{Query: q, Err: err}
		}
		result, err := a.svc.Run(ctx, a.table, req, page)
		return components.FilterResultMsg{Query: q, Result: result, Err: err}
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "f1":
			a.showHelp = !a.showHelp
			return a, nil
		case "esc":
			// Exit help mode before quitting
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			return a, tea.Quit
		}
		if a.showHelp {
			return a, nil
		}

	case components.RunFilterMsg:
		return a, a.runFilter(msg.Query)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateDimensions()
		return a, nil
	}

	var cmd tea.Cmd
	a.console, cmd = a.console.Update(msg)
	return a, cmd
}

func (a *App) updateDimensions() {
	// top and bottom bars take one line each
	contentHeight := max(a.height-2, 3)
	a.fieldsPanel.Width = fieldsPanelWidth
	a.fieldsPanel.Height = max(contentHeight-2, 1)
	a.console.SetSize(max(a.width-fieldsPanelWidth-2, 20), contentHeight)
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return help.Render(a.width, a.height, a.theme)
	}

	topBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar("lazyfilter", a.table))

	bottomBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar("[enter] Run | [ctrl+y] Copy WHERE | [esc] Quit", "F1 Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.console.View(), a.fieldsPanel.View())
	return lipgloss.JoinVertical(lipgloss.Left, topBar, body, bottomBar)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(a.width-4, 0)

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	// If content is too wide, truncate
	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return runewidth.Truncate(left, availableWidth-rightLen, "") + right
		}
		return runewidth.Truncate(left, availableWidth, "")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + lipgloss.NewStyle().Width(spacing).Render("") + right
}

// Run starts the console program
func Run(a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
