// Package statsui provides the Bubble Tea stats view shown between runs.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/stats"
	"github.com/verte-zerg/simonsays/internal/store"
)

const (
	tabOverview = iota
	tabGestures
)

const (
	defaultWindow = 10
	weakShown     = 2
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats view.
type Model struct {
	store  *store.Store
	cfg    model.StatsConfig
	window int

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	gestureTable table.Model

	width  int
	height int
}

// NewModel constructs a stats view over st. window is the moving-average
// and weak-gesture window in runs.
func NewModel(st *store.Store, cfg model.StatsConfig, window int) *Model {
	if window <= 0 {
		window = defaultWindow
	}
	m := &Model{
		store:    st,
		cfg:      cfg,
		window:   window,
		tabs:     []string{"Overview", "Gestures"},
		overview: viewport.New(0, 0),
	}
	m.gestureTable = buildGestureTable(nil, 0, 1)
	m.Refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Quitting and leaving the view are handled by
// the caller.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "=":
			m.window = nextWindow(m.window)
			m.Refresh()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.Refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabGestures {
				m.gestureTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabGestures {
				m.gestureTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabGestures {
			m.gestureTable, cmd = m.gestureTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// SetSize lays the view out for a width x height terminal.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width <= 0 || height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.gestureTable.SetWidth(width)
	m.gestureTable.SetHeight(maxInt(1, bodyHeight-1))
	m.renderContents()
}

// Refresh reloads the report from the store.
func (m *Model) Refresh() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg, m.window)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.gestureTable = buildGestureTable(report.GestureAggsAll, width, bodyHeight)
	if m.activeTab == tabGestures {
		m.gestureTable.Focus()
	}
	m.renderContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabGestures {
		m.gestureTable.Focus()
	} else {
		m.gestureTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	summary := fmt.Sprintf("Runs: last=%s  window=%d", last, m.window)
	summary = truncateLine(summary, m.width)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(summary)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Back: tab/esc  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabGestures {
		if len(m.report.GestureAggsAll) == 0 {
			return fitLines("No rounds played.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.gestureTable.View()), m.width, height)
	}
	return fitLines(m.overview.View(), m.width, height)
}

func (m *Model) renderContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.window, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Runs) == 0 {
		return "No runs yet."
	}
	parts := []string{renderSummaryCards(report.Runs, width)}
	var buf bytes.Buffer
	if err := stats.RenderHistory(&buf, report.Runs, window, width); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render history: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	if weak := weakGestures(report.GestureAggsWindow); weak != "" {
		parts = append(parts, fmt.Sprintf("Weakest (last %d runs): %s", window, weak))
	}
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(runs []model.RunAggregate, width int) string {
	s := stats.RunMetrics(runs)
	cards := []string{
		metricCard("Runs", fmt.Sprintf("%d", s.Runs)),
		metricCard("High score", fmt.Sprintf("%d", s.Best)),
		metricCard("Avg streak", fmt.Sprintf("%.2f", s.AverageStreak)),
		metricCard("Rounds", fmt.Sprintf("%d", s.TotalRounds)),
		metricCard("Avg run", fmt.Sprintf("%.1fs", s.AvgDurationMs/1000)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func weakGestures(aggs []model.GestureAggregate) string {
	weak := stats.SelectWeakGestures(aggs, weakShown)
	if len(weak) == 0 {
		return ""
	}
	names := make([]string, 0, len(weak))
	for g := range weak {
		names = append(names, g.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func buildGestureTable(aggs []model.GestureAggregate, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Gesture", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Reaction (ms)", Width: 18},
		{Title: "Passed", Width: 6},
		{Title: "Failed", Width: 6},
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, r := range stats.GestureRows(aggs) {
		rows = append(rows, table.Row{
			r.Gesture.String(),
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f", r.ReactionMs),
			fmt.Sprintf("%d", r.Successes),
			fmt.Sprintf("%d", r.Failures),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(gestureTableStyles())
	return t
}

func gestureTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
