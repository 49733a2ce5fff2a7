package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cj3636/linediff/internal/compare"
	"github.com/cj3636/linediff/internal/config"
	"github.com/cj3636/linediff/internal/diff"
	"github.com/cj3636/linediff/internal/highlight"
	"github.com/cj3636/linediff/internal/watcher"
)

// Reloader re-runs the comparison from scratch. A nil comparison with a nil
// error means the line no longer resolves to anything.
type Reloader func(ctx context.Context) (*compare.Comparison, error)

type comparisonMsg struct {
	cmp *compare.Comparison
	err error
}

type fileChangedMsg struct{}

type watchErrMsg struct {
	err error
}

// Model represents the application state
type Model struct {
	cmp         *compare.Comparison
	config      *config.Config
	styles      *Styles
	keys        keyMap
	help        help.Model
	viewport    viewport.Model
	highlighter *highlight.Highlighter
	leftHL      []string
	rightHL     []string
	width       int
	height      int
	ready       bool
	showHelp    bool
	showStats   bool
	sideBySide  bool
	syntax      bool
	lineNumbers bool
	reload      Reloader
	watch       *watcher.Watcher
	ctx         context.Context
	status      string
}

// Styles holds all the lipgloss styles
type Styles struct {
	added      lipgloss.Style
	removed    lipgloss.Style
	changed    lipgloss.Style
	unchanged  lipgloss.Style
	lineNumber lipgloss.Style
	focus      lipgloss.Style
	title      lipgloss.Style
	subtitle   lipgloss.Style
	statusBar  lipgloss.Style
	warning    lipgloss.Style
	panel      lipgloss.Style
}

// NewModel creates a new TUI model. reload and watch may be nil.
func NewModel(ctx context.Context, cmp *compare.Comparison, cfg *config.Config, reload Reloader, watch *watcher.Watcher) Model {
	m := Model{
		config:      cfg,
		styles:      createStyles(cfg.Theme),
		keys:        newKeyMap(cfg.Keybindings),
		help:        help.New(),
		highlighter: highlight.New(chromaStyle(cfg.ThemePreset)),
		sideBySide:  cfg.SideBySide,
		syntax:      cfg.SyntaxHighlight,
		lineNumbers: cfg.ShowLineNo,
		reload:      reload,
		watch:       watch,
		ctx:         ctx,
	}
	m.setComparison(cmp)
	return m
}

func chromaStyle(preset config.ThemePreset) string {
	switch preset {
	case config.PresetSolarize:
		return "solarized-dark"
	case config.PresetDracula:
		return "dracula"
	default:
		return "monokai"
	}
}

// createStyles initializes all lipgloss styles based on theme
func createStyles(theme config.Theme) *Styles {
	return &Styles{
		added: lipgloss.NewStyle().
			Foreground(theme.AddedFg).
			Background(theme.AddedBg),
		removed: lipgloss.NewStyle().
			Foreground(theme.RemovedFg).
			Background(theme.RemovedBg),
		changed: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		unchanged: lipgloss.NewStyle().
			Foreground(theme.UnchangedFg),
		lineNumber: lipgloss.NewStyle().
			Foreground(theme.LineNumberFg),
		focus: lipgloss.NewStyle().
			Background(theme.FocusBg).
			Bold(true),
		title: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Bold(true).
			Padding(0, 1),
		subtitle: lipgloss.NewStyle().
			Foreground(theme.HelpFg).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Padding(0, 1),
		warning: lipgloss.NewStyle().
			Foreground(theme.WarningFg).
			Bold(true),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderFg).
			Padding(0, 1),
	}
}

func (m *Model) setComparison(cmp *compare.Comparison) {
	m.cmp = cmp
	m.leftHL, m.rightHL = nil, nil
	if cmp == nil || cmp.Result == nil {
		return
	}
	m.leftHL = m.highlighter.Lines(cmp.Pair.LHS.Location.Path, cmp.Result.LeftLines)
	m.rightHL = m.highlighter.Lines(cmp.Pair.RHS.Location.Path, cmp.Result.RightLines)
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	changes, errs := m.watch.Changes, m.watch.Errors
	return func() tea.Msg {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	reload, ctx := m.reload, m.ctx
	return func() tea.Msg {
		cmp, err := reload(ctx)
		return comparisonMsg{cmp: cmp, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 1)
			m.viewport.KeyMap = viewport.KeyMap{}
			m.ready = true
		}
		m.viewport.Width = msg.Width
		m.layout()
		m.refresh()
		m.centerOnFocus()

	case fileChangedMsg:
		m.status = "working file changed, re-resolving…"
		m.layout()
		return m, tea.Batch(m.reloadCmd(), m.waitForChange())

	case watchErrMsg:
		m.status = "watch: " + msg.err.Error()
		m.layout()
		return m, m.waitForChange()

	case comparisonMsg:
		switch {
		case msg.err != nil:
			m.status = "reload failed: " + msg.err.Error()
		case msg.cmp == nil:
			m.status = "line no longer resolves; showing previous comparison"
		default:
			m.status = ""
			m.setComparison(msg.cmp)
			m.refresh()
			m.centerOnFocus()
		}
		m.layout()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		if m.showHelp {
			m.showStats = false
		}
		m.layout()
	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		if m.showStats {
			m.showHelp = false
			m.help.ShowAll = false
		}
		m.layout()
	case key.Matches(msg, m.keys.SideBySide):
		m.sideBySide = !m.sideBySide
		m.refresh()
	case key.Matches(msg, m.keys.Syntax):
		m.syntax = !m.syntax
		m.refresh()
	case key.Matches(msg, m.keys.LineNumbers):
		m.lineNumbers = !m.lineNumbers
		m.refresh()
	case key.Matches(msg, m.keys.Down):
		m.viewport.SetYOffset(m.viewport.YOffset + 1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.SetYOffset(m.viewport.YOffset - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + max(1, m.viewport.Height/2))
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - max(1, m.viewport.Height/2))
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.Focus):
		m.centerOnFocus()
	case key.Matches(msg, m.keys.Reload):
		if m.reload != nil {
			m.status = "re-resolving…"
			m.layout()
			return m, m.reloadCmd()
		}
	}
	return m, nil
}

// layout sizes the viewport to whatever the header, panels and status bar
// leave over.
func (m *Model) layout() {
	if !m.ready || m.cmp == nil {
		return
	}
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderStatusBar())
	if panel := m.renderPanel(); panel != "" {
		used += lipgloss.Height(panel)
	}
	m.viewport.Height = max(1, m.height-used)
}

func (m *Model) refresh() {
	if !m.ready || m.cmp == nil {
		return
	}
	m.viewport.SetContent(m.renderRows())
}

func (m *Model) centerOnFocus() {
	if !m.ready || m.cmp == nil || m.cmp.FocusIndex < 0 {
		return
	}
	m.viewport.SetYOffset(max(0, m.cmp.FocusIndex-m.viewport.Height/2))
}

// View renders the UI
func (m Model) View() string {
	if m.cmp == nil || m.cmp.Result == nil {
		return "No comparison to display\n"
	}
	if !m.ready {
		return "loading…"
	}

	sections := []string{m.renderHeader(), m.viewport.View()}
	if panel := m.renderPanel(); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("linediff: %s ↔ %s",
		truncate(m.cmp.Result.LeftLabel, 50),
		truncate(m.cmp.Result.RightLabel, 50))
	sub := fmt.Sprintf("line %d · %s", m.cmp.Pair.Line+1, m.cmp.Pair.RepoPath)
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.title.Render(title), m.styles.subtitle.Render(sub))
}

func (m Model) renderPanel() string {
	switch {
	case m.showHelp:
		return m.styles.panel.Render(m.help.View(m.keys))
	case m.showStats:
		return m.styles.panel.Render(m.renderStats())
	default:
		return ""
	}
}

func (m Model) renderStats() string {
	added, removed, unchanged := m.cmp.Result.GetStats()
	rows := []string{
		fmt.Sprintf("left:      %s (%d lines)", compare.Label(m.cmp.Pair.LHS), len(m.cmp.Result.LeftLines)),
		fmt.Sprintf("right:     %s (%d lines)", compare.Label(m.cmp.Pair.RHS), len(m.cmp.Result.RightLines)),
		fmt.Sprintf("added:     %d", added),
		fmt.Sprintf("removed:   %d", removed),
		fmt.Sprintf("unchanged: %d", unchanged),
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	added, removed, unchanged := m.cmp.Result.GetStats()

	viewMode := "unified"
	if m.sideBySide {
		viewMode = "side-by-side"
	}
	colorMode := "on"
	if !m.syntax {
		colorMode = "off"
	}

	counts := fmt.Sprintf("+%d -%d =%d", added, removed, unchanged)
	if !m.cmp.Result.HasChanges() {
		counts = "identical"
	}
	status := fmt.Sprintf("%s | Pos: %d/%d | View: %s | Color: %s",
		counts,
		m.viewport.YOffset+1, max(1, len(m.cmp.Result.Lines)),
		viewMode, colorMode,
	)
	bar := m.styles.statusBar.Render(status) + " " + m.help.ShortHelpView(m.keys.ShortHelp())
	if m.status != "" {
		bar = lipgloss.JoinVertical(lipgloss.Left, m.styles.warning.Render(m.status), bar)
	}
	return bar
}

func (m Model) renderRows() string {
	lines := m.cmp.Result.Lines
	if len(lines) == 0 {
		return m.styles.unchanged.Render("Both sides are empty.")
	}
	rows := make([]string, len(lines))
	for i, line := range lines {
		var row string
		if m.sideBySide {
			row = m.renderSideBySideLine(line)
		} else {
			row = m.renderLine(line)
		}
		if i == m.cmp.FocusIndex {
			row = m.styles.focus.Render("▶") + row
		} else {
			row = " " + row
		}
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// renderLine renders a single diff line in unified mode
func (m Model) renderLine(line diff.DiffLine) string {
	var b strings.Builder
	if m.lineNumbers {
		b.WriteString(m.styles.lineNumber.Render(lineNo(line.LineNo1) + " " + lineNo(line.LineNo2) + " "))
	}
	symbol, _ := m.lineStyle(line.Type)
	b.WriteString(m.renderContent(line, symbol+" "))
	return b.String()
}

// renderSideBySideLine renders a single row as two columns
func (m Model) renderSideBySideLine(line diff.DiffLine) string {
	columnWidth := max(20, (m.width-4)/2)

	var left, right string
	switch line.Type {
	case diff.Removed:
		left = m.renderContent(line, "- ")
	case diff.Added:
		right = m.renderContent(line, "+ ")
	default:
		left = m.renderContent(line, "  ")
		right = left
	}

	if m.lineNumbers {
		if line.LineNo1 > 0 || line.Type == diff.Removed {
			left = m.styles.lineNumber.Render(lineNo(line.LineNo1)+" ") + left
		}
		if line.LineNo2 > 0 || line.Type == diff.Added {
			right = m.styles.lineNumber.Render(lineNo(line.LineNo2)+" ") + right
		}
	}

	return fitColumn(left, columnWidth) + " │ " + fitColumn(right, columnWidth)
}

func (m Model) lineStyle(t diff.LineType) (string, lipgloss.Style) {
	switch t {
	case diff.Added:
		return "+", m.styles.added
	case diff.Removed:
		return "-", m.styles.removed
	default:
		return " ", m.styles.unchanged
	}
}

// renderContent styles a line's text. Changed lines get diff colors with
// intraline emphasis; unchanged lines get syntax colors when enabled.
func (m Model) renderContent(line diff.DiffLine, prefix string) string {
	_, style := m.lineStyle(line.Type)
	if !m.syntax {
		style = m.styles.unchanged
	}

	if line.Type == diff.Equal {
		if m.syntax && line.LineNo2 > 0 && line.LineNo2 <= len(m.rightHL) {
			return prefix + m.expandTabs(m.rightHL[line.LineNo2-1])
		}
		return style.Render(prefix + m.expandTabs(line.Content))
	}

	if len(line.Segments) == 0 || !m.syntax {
		return style.Render(prefix + m.expandTabs(line.Content))
	}

	var b strings.Builder
	b.WriteString(style.Render(prefix))
	for _, seg := range line.Segments {
		if seg.Changed {
			b.WriteString(style.Inherit(m.styles.changed).Render(m.expandTabs(seg.Text)))
		} else {
			b.WriteString(style.Render(m.expandTabs(seg.Text)))
		}
	}
	return b.String()
}

func (m Model) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", max(1, m.config.TabSize)))
}

func lineNo(n int) string {
	if n <= 0 {
		return "     "
	}
	return fmt.Sprintf("%5d", n)
}

// fitColumn truncates or pads s to exactly width cells, ANSI aware.
func fitColumn(s string, width int) string {
	s = lipgloss.NewStyle().Inline(true).MaxWidth(width).Render(s)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
