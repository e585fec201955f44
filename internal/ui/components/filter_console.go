package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyfilter/internal/db/query"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/service"
	"github.com/rebeliceyang/lazyfilter/internal/ui/highlight"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

const (
	minCellWidth = 4
	maxCellWidth = 30
)

// PreviewFunc compiles a filter query without running it
type PreviewFunc func(query string) (*service.Prepared, error)

// RunFilterMsg is sent when the typed filter should be executed
type RunFilterMsg struct {
	Query string
}

// FilterResultMsg carries the outcome of a RunFilterMsg
type FilterResultMsg struct {
	Query  string
	Result models.QueryResult
	Err    error
}

// FilterConsole lets the user type a filter query, previews the compiled
// WHERE clause on every keystroke and shows the rows it selects
type FilterConsole struct {
	Input     textinput.Model
	Table     table.Model
	Theme     theme.Theme
	TableName string
	Width     int
	Height    int

	preview  PreviewFunc
	copyText func(string) error

	prepared   *service.Prepared
	previewErr error
	result     *models.QueryResult
	runErr     error
	running    bool
	status     string
}

// NewFilterConsole creates a console for tableName
func NewFilterConsole(th theme.Theme, tableName string, preview PreviewFunc) *FilterConsole {
	ti := textinput.New()
	ti.Placeholder = "name=lk_*a*&age=gt_30&order=id&sort=asc"
	ti.Prompt = "filter> "
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(th.Border).
		BorderBottom(true).
		Foreground(th.TableHeader).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(th.Foreground).
		Background(th.TableRowSelected).
		Bold(false)
	t.SetStyles(styles)

	c := &FilterConsole{
		Input:     ti,
		Table:     t,
		Theme:     th,
		TableName: tableName,
		Width:     80,
		Height:    24,
		preview:   preview,
		copyText:  clipboard.WriteAll,
	}
	c.refreshPreview()
	return c
}

// SetQuery replaces the typed query and refreshes the preview
func (c *FilterConsole) SetQuery(q string) {
	c.Input.SetValue(q)
	c.refreshPreview()
}

// Where returns the compiled WHERE clause of the current query
func (c *FilterConsole) Where() string {
	if c.prepared == nil {
		return ""
	}
	return c.prepared.Statement.Where
}

// PreviewError returns why the current query does not compile
func (c *FilterConsole) PreviewError() error {
	return c.previewErr
}

// Result returns the last successful result, if any
func (c *FilterConsole) Result() *models.QueryResult {
	return c.result
}

func (c *FilterConsole) refreshPreview() {
	c.prepared, c.previewErr = nil, nil
	if c.preview == nil {
		return
	}
	c.prepared, c.previewErr = c.preview(strings.TrimSpace(c.Input.Value()))
}

// Update handles messages
func (c *FilterConsole) Update(msg tea.Msg) (*FilterConsole, tea.Cmd) {
	switch msg := msg.(type) {
	case FilterResultMsg:
		c.running = false
		if msg.Err != nil {
			c.runErr = msg.Err
			c.status = ""
			return c, nil
		}
		c.runErr = nil
		c.SetResult(msg.Result)
		c.status = fmt.Sprintf("%d of %d rows in %s", len(msg.Result.Rows), msg.Result.Total, msg.Result.Duration.Round(time.Millisecond))
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if c.previewErr != nil || c.running {
				return c, nil
			}
			c.running = true
			c.status = "running..."
			q := strings.TrimSpace(c.Input.Value())
			return c, func() tea.Msg {
				return RunFilterMsg{Query: q}
			}
		case "ctrl+y":
			where := c.Where()
			if where == "" {
				c.status = "nothing to copy"
				return c, nil
			}
			if err := c.copyText(where); err != nil {
				c.status = "copy failed: " + err.Error()
			} else {
				c.status = "WHERE clause copied"
			}
			return c, nil
		case "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			c.Table, cmd = c.Table.Update(msg)
			return c, cmd
		}
	}

	before := c.Input.Value()
	var cmd tea.Cmd
	c.Input, cmd = c.Input.Update(msg)
	if c.Input.Value() != before {
		c.refreshPreview()
	}
	return c, cmd
}

// SetResult loads result into the table
func (c *FilterConsole) SetResult(result models.QueryResult) {
	c.result = &result

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = runewidth.StringWidth(col)
	}
	rows := make([]table.Row, 0, len(result.Rows))
	for _, r := range result.Rows {
		row := make(table.Row, len(result.Columns))
		for i := range result.Columns {
			var v interface{}
			if i < len(r) {
				v = r[i]
			}
			cell := runewidth.Truncate(query.FormatValue(v), maxCellWidth, "…")
			row[i] = cell
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, len(result.Columns))
	for i, col := range result.Columns {
		columns[i] = table.Column{Title: col, Width: min(max(widths[i], minCellWidth), maxCellWidth)}
	}

	// Rows must be cleared first so they never outnumber the new columns
	c.Table.SetRows(nil)
	c.Table.SetColumns(columns)
	c.Table.SetRows(rows)
	c.Table.GotoTop()
}

// SetSize resizes the console
func (c *FilterConsole) SetSize(width, height int) {
	c.Width = width
	c.Height = height
	c.Input.Width = max(width-len(c.Input.Prompt)-4, 20)
	// input, preview, status and borders take the rest
	c.Table.SetHeight(max(height-10, 3))
	c.Table.SetWidth(max(width-4, 20))
}

// View renders the console
func (c *FilterConsole) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Theme.BorderFocused).
		Padding(0, 1).
		Width(max(c.Width-2, 0))

	labelStyle := lipgloss.NewStyle().Foreground(c.Theme.Metadata).Italic(true)
	errorStyle := lipgloss.NewStyle().Foreground(c.Theme.Error)

	var preview string
	switch {
	case c.previewErr != nil:
		preview = errorStyle.Render(c.previewErr.Error())
	case c.Where() == "":
		preview = labelStyle.Render("no filter: every row of " + c.TableName)
	default:
		preview = highlight.SQL(c.Where(), c.Theme.SyntaxStyle)
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(c.Input.View() + "\n" + preview))
	b.WriteString("\n")

	switch {
	case c.runErr != nil:
		b.WriteString(errorStyle.Render(c.runErr.Error()))
	case c.result != nil:
		b.WriteString(c.Table.View())
	default:
		b.WriteString(labelStyle.Render("Press Enter to run the filter"))
	}

	if c.status != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(c.status))
	}
	return b.String()
}
