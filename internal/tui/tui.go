// internal/tui/tui.go
// Package tui provides the terminal viewer for a single report view.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

// model is the Bubble Tea model for one view.
type model struct {
	ctx       context.Context
	loader    *views.Loader
	poll      time.Duration
	spinner   spinner.Model
	table     table.Model
	state     views.State
	data      *views.Model
	err       error
	dataset   int
	metric    int
	loadStart time.Time
	width     int
	height    int
}

// modelLoadedMsg carries a finished load.
type modelLoadedMsg struct{ model *views.Model }

// loadErr is sent when a load fails.
type loadErr struct{ error }

// tickMsg drives polling reloads.
type tickMsg time.Time

// Run opens the viewer for loader and blocks until the user quits. A
// positive poll reloads the view on that interval.
func Run(ctx context.Context, loader *views.Loader, poll time.Duration) error {
	p := tea.NewProgram(initialModel(ctx, loader, poll), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func initialModel(ctx context.Context, loader *views.Loader, poll time.Duration) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	t.SetStyles(styles)

	return &model{
		ctx:     ctx,
		loader:  loader,
		poll:    poll,
		spinner: s,
		table:   t,
		state:   views.Idle,
	}
}

func loadCmd(ctx context.Context, loader *views.Loader) tea.Cmd {
	return func() tea.Msg {
		m, err := loader.Load(ctx)
		if err != nil {
			return loadErr{error: err}
		}
		return modelLoadedMsg{model: m}
	}
}

func pollCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the first load.
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startLoad()}
	if m.poll > 0 {
		cmds = append(cmds, pollCmd(m.poll))
	}
	return tea.Batch(cmds...)
}

func (m *model) startLoad() tea.Cmd {
	m.state = views.Loading
	m.loadStart = time.Now()
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.loader))
}

// Update handles keys, load results and poll ticks.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if m.state == views.Loading {
				return m, nil
			}
			return m, m.startLoad()
		case "]":
			m.moveDataset(1)
			return m, nil
		case "[":
			m.moveDataset(-1)
			return m, nil
		case "right", "l":
			m.moveMetric(1)
			return m, nil
		case "left", "h":
			m.moveMetric(-1)
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(max(msg.Height-12, 3))
		return m, nil

	case modelLoadedMsg:
		m.state = views.Ready
		m.data = msg.model
		m.err = nil
		m.dataset = clamp(m.dataset, len(m.data.Datasets))
		m.metric = clamp(m.metric, len(m.tabs()))
		m.refreshTable()
		return m, nil

	case loadErr:
		m.state = views.Failed
		m.data = nil
		m.err = msg.error
		m.refreshTable()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{pollCmd(m.poll)}
		if m.state != views.Loading {
			cmds = append(cmds, m.startLoad())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.state != views.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) current() (reshape.Dataset, bool) {
	if m.data == nil || len(m.data.Datasets) == 0 {
		return reshape.Dataset{}, false
	}
	return m.data.Datasets[m.dataset], true
}

// tabs lists the metric tabs for the current dataset in series order.
func (m *model) tabs() []string {
	ds, ok := m.current()
	if !ok {
		return nil
	}
	return ds.Groups.Names()
}

func (m *model) moveDataset(delta int) {
	if m.data == nil || len(m.data.Datasets) == 0 {
		return
	}
	m.dataset = wrap(m.dataset+delta, len(m.data.Datasets))
	m.metric = clamp(m.metric, len(m.tabs()))
	m.refreshTable()
}

func (m *model) moveMetric(delta int) {
	tabs := m.tabs()
	if len(tabs) == 0 {
		return
	}
	m.metric = wrap(m.metric+delta, len(tabs))
	m.refreshTable()
}

// refreshTable swaps in the summary table built around the selected metric.
// Rows are cleared first so they never outnumber the columns while switching.
func (m *model) refreshTable() {
	m.table.SetRows(nil)
	ds, ok := m.current()
	if !ok {
		return
	}
	tabs := m.tabs()
	if len(tabs) == 0 {
		return
	}
	cols := []table.Column{{Title: "#", Width: 4}, {Title: "Prompt", Width: 24}}
	for _, metric := range reshape.DisplayedMetrics {
		cols = append(cols, table.Column{Title: metric, Width: max(len(metric), 10)})
	}
	m.table.SetColumns(cols)

	summary, _ := ds.SummaryFor(tabs[clamp(m.metric, len(tabs))])
	rows := make([]table.Row, 0, len(summary))
	for _, r := range summary {
		row := table.Row{strconv.Itoa(r.Index), r.Prompt}
		for _, c := range r.Cells {
			row = append(row, c.Display)
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// View renders the header, tabs and table.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	def := m.loader.Definition()

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render(def.Title),
		renderStateBadge(m.state),
		renderPolicyBadge(def.Policy),
	))
	if m.state == views.Loading {
		fmt.Fprintf(&b, "  %s %.1fs", m.spinner.View(), time.Since(m.loadStart).Seconds())
	}
	b.WriteString("\n\n")

	ds, ok := m.current()
	switch {
	case m.state == views.Failed:
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		b.WriteString("no data\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
	case !ok && m.data != nil:
		b.WriteString("no data\n")
	case !ok:
		fmt.Fprintf(&b, "  %s Loading %s...\n", m.spinner.View(), def.Name)
	default:
		b.WriteString(m.datasetView(ds))
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString("\n")
	b.WriteString(help.Render("[/] dataset  ←/→ metric  ↑/↓ scroll  r reload  q quit"))
	return b.String()
}

func (m *model) datasetView(ds reshape.Dataset) string {
	var b strings.Builder
	b.WriteString(renderTabs(datasetNames(m.data.Datasets), m.dataset))
	b.WriteString("\n")

	totals := lipgloss.NewStyle().Bold(true)
	b.WriteString(totals.Render(fmt.Sprintf("CPU %.2f J  GPU %.2f J  RAM %.2f J  energy %.2f J  %.2f gCO2",
		ds.Totals.CPU, ds.Totals.GPU, ds.Totals.RAM, ds.Totals.Energy(), ds.Totals.CO2)))
	b.WriteString("\n")
	equiv := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	b.WriteString(equiv.Render("≈ " + strings.Join(ds.Equivalents.Lines(), " | ")))
	b.WriteString("\n")
	if ds.Dropped > 0 || len(m.data.Diagnostics) > 0 {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		b.WriteString(warn.Render(fmt.Sprintf("%d rows skipped, %d sources unavailable", ds.Dropped, len(m.data.Diagnostics))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderTabs(m.tabs(), m.metric))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	return b.String()
}

func datasetNames(datasets []reshape.Dataset) []string {
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		names[i] = ds.Key.String()
	}
	return names
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clamp(i, n int) int {
	if i >= n {
		return 0
	}
	return i
}
