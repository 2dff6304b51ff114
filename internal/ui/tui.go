// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskcli/internal/task"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	watch        bool
	tickInterval time.Duration
	logger       *log.Logger
}

// WithWatch enables reloading when the tasks file changes on disk.
func WithWatch(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.watch = enabled
	}
}

// WithRefreshInterval sets the polling interval used when file watching is
// off or unavailable.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithLogger sets the logger for watcher diagnostics.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// RunTUI starts the TUI over the given manager.
func RunTUI(ctx context.Context, m *task.Manager, opts ...TUIOption) error {
	c := &tuiConfig{
		watch:        true,
		tickInterval: 2 * time.Second,
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(m, c.tickInterval)
	if c.watch {
		watcher, err := NewStoreWatcher(m.Path())
		if err != nil {
			c.logger.Warn("file watching unavailable, polling instead", "err", err)
		} else {
			defer watcher.Close()
			model.changes = watcher.Changes()
			go func() {
				for err := range watcher.Errors() {
					c.logger.Warn("file watcher error", "err", err)
				}
			}()
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

type tuiModel struct {
	manager      *task.Manager
	tasks        []task.Task
	loadErr      error
	message      string
	cursor       int
	filter       task.Status
	showHelp     bool
	changes      <-chan struct{}
	tickInterval time.Duration
}

type tickMsg time.Time

type storeChangedMsg struct{}

func newTUIModel(m *task.Manager, tickInterval time.Duration) *tuiModel {
	return &tuiModel{
		manager:      m,
		tickInterval: tickInterval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	if m.changes != nil {
		return waitForChange(m.changes)
	}
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case storeChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "r", "f5":
		m.message = ""
		m.refresh()
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "1":
		m.setFilter(task.StatusTodo)
	case "2":
		m.setFilter(task.StatusInProgress)
	case "3":
		m.setFilter(task.StatusDone)
	case "0":
		m.setFilter("")
	case "p":
		m.apply("Task marked as in progress", m.manager.MarkInProgress)
	case "d":
		m.apply("Task marked as done", m.manager.MarkDone)
	case "x":
		m.apply("Task deleted", m.manager.Delete)
	}
	return nil
}

func (m *tuiModel) setFilter(status task.Status) {
	m.filter = status
	m.cursor = 0
	m.refresh()
}

// apply runs op on the selected task and reloads.
func (m *tuiModel) apply(label string, op func(int) (task.Task, error)) {
	selected, ok := m.selected()
	if !ok {
		return
	}
	if _, err := op(selected.ID); err != nil {
		m.message = "Error: " + err.Error()
	} else {
		m.message = fmt.Sprintf("%s: %d", label, selected.ID)
	}
	m.refresh()
}

func (m *tuiModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) refresh() {
	tasks, err := m.manager.List(string(m.filter))
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		m.cursor = 0
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyles  = map[task.Status]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.changes != nil, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading tasks file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.changes != nil, m.tickInterval)
		return b.String()
	}

	writeTasks(&b, m.tasks, m.cursor, m.filter)
	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	b.WriteString(dimStyle.Render("File: "+m.manager.Path()) + "\n")
	writeFooter(&b, m.changes != nil, m.tickInterval)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Task Tracker"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeTasks(b *strings.Builder, tasks []task.Task, cursor int, filter task.Status) {
	if len(tasks) == 0 {
		if filter != "" {
			b.WriteString(fmt.Sprintf("No tasks found with status: %s.\n\n", filter))
		} else {
			b.WriteString("No tasks found.\n\n")
		}
		return
	}

	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d\n\n",
		counts[task.StatusTodo], counts[task.StatusInProgress], counts[task.StatusDone]))

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-4s %-12s %-19s %s", "ID", "Status", "Updated", "Description")) + "\n")
	for i, t := range tasks {
		line := formatTask(t)
		if i == cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func formatTask(t task.Task) string {
	status := fmt.Sprintf("%-12s", t.Status)
	if style, ok := statusStyles[t.Status]; ok {
		status = style.Render(status)
	}
	return fmt.Sprintf("%-4d %s %-19s %s", t.ID, status, t.UpdatedAt, t.Description)
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  p            Mark selected in progress\n")
	b.WriteString("  d            Mark selected done\n")
	b.WriteString("  x            Delete selected\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, watching bool, interval time.Duration) {
	refresh := fmt.Sprintf("refreshing every %s", interval)
	if watching {
		refresh = "watching for changes"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | %s", refresh)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
