package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"

	"github.com/robby/epicreport/internal/domain"
	"github.com/robby/epicreport/internal/export"
	"github.com/robby/epicreport/internal/store"
)

// Layout constants
const (
	maxCellWidth  = 32
	headerLines   = 2 // Title line + blank line
	footerLines   = 2 // Toast line + short help
	detailLines   = 11
	defaultWidth  = 100
	defaultHeight = 30
	ellipsis      = "…"
)

// Loader produces the aggregated report. The preview calls it once on start.
type Loader func(ctx context.Context) (*store.Store, error)

// PreviewModel shows the flattened report rows in a scrollable table.
type PreviewModel struct {
	// Dependencies
	ctx       context.Context
	load      Loader
	browseURL func(key string) string
	openURL   func(url string) error

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model
	table   table.Model

	// Report data
	rows  []domain.Row
	stats store.Stats

	// View state
	width      int
	height     int
	loading    bool
	showHelp   bool
	showDetail bool
	toast      string
	err        error
}

// NewPreviewModel creates a preview that loads its rows with load.
// browseURL maps a ticket key to its web URL for the open action.
func NewPreviewModel(ctx context.Context, load Loader, browseURL func(string) string) PreviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	keymap := DefaultKeyMap()
	t := table.New(table.WithFocused(true), table.WithKeyMap(tableKeyMap(keymap)))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return PreviewModel{
		ctx:       ctx,
		load:      load,
		browseURL: browseURL,
		openURL:   browser.OpenURL,
		keymap:    keymap,
		help:      NewHelpModel(keymap),
		spinner:   sp,
		table:     t,
		width:     defaultWidth,
		height:    defaultHeight,
		loading:   true,
	}
}

// Init starts loading the report.
func (m PreviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize(), m.loadReport())
}

// Update handles messages
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ReportLoadedMsg:
		m.loading = false
		m.rows = msg.Store.Rows()
		m.stats = msg.Store.Stats()
		(&m).rebuildTable()
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.toast = fmt.Sprintf("Open %s failed: %v", msg.key, msg.err)
		} else {
			m.toast = "Opened " + msg.key
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m PreviewModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}

	// Help overlay swallows everything but its own toggle
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.loading || m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.Detail):
		m.showDetail = !m.showDetail
		(&m).resize()
		return m, nil
	case key.Matches(msg, m.keymap.Open):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m, m.openTicket(row.Child.Key)
	}

	m.toast = ""
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the preview
func (m PreviewModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if m.loading {
		return m.spinner.View() + " Fetching tickets...\n\nPress q to quit"
	}
	if m.showHelp {
		return m.help.View(m.width)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("No rows: no story or SCR references an epic in the time window."))
	} else {
		b.WriteString(m.table.View())
	}

	if m.showDetail {
		if row, ok := m.selectedRow(); ok {
			b.WriteString("\n")
			b.WriteString(renderDetail(row, m.width))
		}
	}

	b.WriteString("\n")
	b.WriteString(toastStyle.Render(m.toast))
	b.WriteString("\n")
	b.WriteString(m.help.ShortView(m.width))
	return b.String()
}

// renderHeader renders the title and the report counts
func (m PreviewModel) renderHeader() string {
	title := TitleStyle.Render("Epic report")
	counts := fmt.Sprintf("%d epics · %d stories · %d SCRs · %d rows · %d dropped",
		m.stats.Epics, m.stats.Stories, m.stats.Scrs, m.stats.Rows, m.stats.Dropped)
	line := title + "  " + dimStyle.Render(counts)
	return truncate.StringWithTail(line, uint(max(m.width, 1)), ellipsis)
}

// rebuildTable recomputes columns and rows from the report schema.
func (m *PreviewModel) rebuildTable() {
	widths := make([]int, len(export.Columns))
	for i, c := range export.Columns {
		widths[i] = lipgloss.Width(c.Header())
	}
	for _, row := range m.rows {
		for i, c := range export.Columns {
			widths[i] = max(widths[i], lipgloss.Width(c.Value(row)))
		}
	}

	columns := make([]table.Column, len(export.Columns))
	for i, c := range export.Columns {
		columns[i] = table.Column{Title: c.Header(), Width: min(widths[i], maxCellWidth)}
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		cells := make(table.Row, len(export.Columns))
		for i, c := range export.Columns {
			cells[i] = truncate.StringWithTail(c.Value(row), uint(columns[i].Width), ellipsis)
		}
		rows = append(rows, cells)
	}

	// Rows must be cleared before columns shrink, or the table indexes past them
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.resize()
}

// resize fits the table into the space left by header, footer and detail pane.
func (m *PreviewModel) resize() {
	available := m.height - headerLines - footerLines
	if m.showDetail {
		available -= detailLines
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(available, 3))
}

// selectedRow returns the report row under the cursor.
func (m PreviewModel) selectedRow() (domain.Row, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return domain.Row{}, false
	}
	return m.rows[idx], true
}

// loadReport creates a command that runs the loader.
func (m PreviewModel) loadReport() tea.Cmd {
	return func() tea.Msg {
		s, err := m.load(m.ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ReportLoadedMsg{Store: s}
	}
}

// openTicket creates a command that opens a ticket in the browser.
func (m PreviewModel) openTicket(key string) tea.Cmd {
	url := m.browseURL(key)
	open := m.openURL
	return func() tea.Msg {
		return openResultMsg{key: key, err: open(url)}
	}
}
