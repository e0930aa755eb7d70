// Package tui implements the interactive task monitor behind 'steward watch'.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lvalics/steward/internal/history"
	"github.com/lvalics/steward/internal/task"
)

type View int

const (
	ViewTaskList View = iota
	ViewTaskDetail
)

// taskRow is one line of the task list.
type taskRow struct {
	ID        string
	State     task.State
	Attempts  int
	UpdatedAt time.Time
}

type App struct {
	tasksDir string
	store    *history.Store // nil hides attempt history

	view        View
	rows        []taskRow
	selectedIdx int

	selected     *taskRow
	selectedSpec string
	attempts     []*history.Attempt

	spinner spinner.Model

	width  int
	height int
	err    error
}

func NewApp(tasksDir string, store *history.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusInProgress
	return &App{
		tasksDir: tasksDir,
		store:    store,
		view:     ViewTaskList,
		spinner:  sp,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadTasks, a.tickCmd(), a.spinner.Tick)
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type tickMsg time.Time

type tasksLoadedMsg struct {
	rows []taskRow
	err  error
}

type detailLoadedMsg struct {
	row      taskRow
	spec     string
	attempts []*history.Attempt
	err      error
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tasksLoadedMsg:
		a.rows = msg.rows
		a.err = msg.err
		if a.selectedIdx >= len(a.rows) && a.selectedIdx > 0 {
			a.selectedIdx = len(a.rows) - 1
		}
		return a, nil

	case tickMsg:
		// The task tree is owned by the driver process; poll it.
		if a.view == ViewTaskList {
			return a, tea.Batch(a.loadTasks, a.tickCmd())
		}
		return a, a.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case detailLoadedMsg:
		a.err = msg.err
		if a.err == nil {
			a.selected = &msg.row
			a.selectedSpec = msg.spec
			a.attempts = msg.attempts
			a.view = ViewTaskDetail
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.view {
	case ViewTaskDetail:
		return a.handleDetailKey(msg)
	default:
		return a.handleListKey(msg)
	}
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
	case "down", "j":
		if a.selectedIdx < len(a.rows)-1 {
			a.selectedIdx++
		}
	case "r":
		return a, a.loadTasks
	case "enter":
		if a.selectedIdx < len(a.rows) {
			return a, a.loadDetail(a.rows[a.selectedIdx])
		}
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "backspace":
		a.view = ViewTaskList
		return a, a.loadTasks
	}
	return a, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusPending    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

func (a *App) View() string {
	switch a.view {
	case ViewTaskDetail:
		return a.viewTaskDetail()
	default:
		return a.viewTaskList()
	}
}

func (a *App) viewTaskList() string {
	s := titleStyle.Render("Steward") + "\n\n"

	if a.err != nil {
		s += fmt.Sprintf("Error: %v\n", a.err)
	}

	if len(a.rows) == 0 {
		s += "No tasks found in " + a.tasksDir + "\n"
	} else {
		s += "Tasks\n"
		s += "─────\n"

		for i, row := range a.rows {
			line := a.formatTaskLine(row)
			if i == a.selectedIdx {
				line = selectedStyle.Render("▶ " + line)
			} else if row.State == task.StateCompleted {
				line = "  " + dimStyle.Render(line)
			} else {
				line = "  " + line
			}
			s += line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("[↑/↓] select  [enter] view  [r] refresh  [q] quit")

	return s
}

func (a *App) formatTaskLine(row taskRow) string {
	attempts := ""
	if row.Attempts > 0 {
		attempts = fmt.Sprintf("attempts:%d", row.Attempts)
	}
	age := ""
	if !row.UpdatedAt.IsZero() {
		age = a.formatAge(row.UpdatedAt)
	}
	return fmt.Sprintf("%-24s %s  %-10s %s", row.ID, a.formatState(row.State), attempts, age)
}

func (a *App) formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%dd", days)
	}
}

func (a *App) formatState(state task.State) string {
	switch state {
	case task.StateInProgress:
		return a.spinner.View() + statusInProgress.Render("in-progress")
	case task.StateCompleted:
		return statusCompleted.Render("✓ completed")
	case task.StateBlocked:
		return statusBlocked.Render("✗ blocked")
	default:
		return statusPending.Render("○ pending")
	}
}

func (a *App) viewTaskDetail() string {
	if a.selected == nil {
		return "No task selected"
	}

	row := a.selected

	s := titleStyle.Render("Task: "+row.ID) + "  " + a.formatState(row.State) + "\n\n"

	if row.Attempts > 0 {
		s += labelStyle.Render("Attempts: ") + fmt.Sprintf("%d", row.Attempts) + "\n\n"
	}

	s += strings.TrimRight(a.selectedSpec, "\n") + "\n\n"

	if len(a.attempts) > 0 {
		s += "History\n"
		s += "───────\n"
		for _, attempt := range a.attempts {
			duration := dimStyle.Render(formatDuration(attempt.CompletedAt.Sub(attempt.StartedAt)))
			s += fmt.Sprintf("%d. %-12s %6s  %s\n",
				attempt.Attempt, attempt.Outcome, duration, dimStyle.Render(attempt.LogPath))
		}
		s += "\n"
	}

	s += helpStyle.Render("[esc] back  [q] quit")

	return s
}

func (a *App) loadTasks() tea.Msg {
	tasks, err := task.Discover(a.tasksDir)
	if err != nil {
		return tasksLoadedMsg{err: err}
	}

	rows := make([]taskRow, 0, len(tasks))
	for _, tk := range tasks {
		row := taskRow{ID: tk.ID, State: tk.CurrentState()}
		if rec, recErr := tk.ReadRecord(); recErr == nil && rec != nil {
			row.Attempts = rec.Attempts
			row.UpdatedAt = rec.UpdatedAt
		}
		rows = append(rows, row)
	}
	return tasksLoadedMsg{rows: rows}
}

func (a *App) loadDetail(row taskRow) tea.Cmd {
	return func() tea.Msg {
		tasks, err := task.Discover(a.tasksDir)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		for _, tk := range tasks {
			if tk.ID != row.ID {
				continue
			}
			spec, readErr := tk.ReadSpec()
			if readErr != nil {
				return detailLoadedMsg{err: readErr}
			}
			msg := detailLoadedMsg{row: row, spec: spec}
			if a.store != nil {
				msg.attempts, msg.err = a.store.ForTask(row.ID)
			}
			return msg
		}
		return detailLoadedMsg{err: fmt.Errorf("task %q not found", row.ID)}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
