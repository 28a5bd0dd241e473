// Package tui provides the interactive terminal dashboard for Cadence.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	statusTodo       = lipgloss.NewStyle().Foreground(warningColor)
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statusCompleted  = lipgloss.NewStyle().Foreground(successColor)
	offlineStyle     = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

var tabs = []string{"Tasks", "Meetings", "Calendar"}

var taskFilters = []string{"", "todo", "in_progress", "completed"}
var taskFilterNames = []string{"ALL", "TODO", "IN PROGRESS", "DONE"}

// taskListItem adapts TaskRow to bubbles' list.Item.
type taskListItem struct {
	row TaskRow
}

func (i taskListItem) FilterValue() string { return i.row.Title }
func (i taskListItem) Title() string       { return i.row.Title }
func (i taskListItem) Description() string {
	status := formatStatus(i.row.Status, i.row.Progress)
	if i.row.Assignee != "" {
		return fmt.Sprintf("%s • %s • due %s", status, i.row.Assignee, i.row.Deadline)
	}
	return fmt.Sprintf("%s • due %s", status, i.row.Deadline)
}

func formatStatus(status string, progress int) string {
	switch status {
	case "todo":
		return statusTodo.Render("● todo")
	case "in_progress":
		return statusInProgress.Render(fmt.Sprintf("● in progress %d%%", progress))
	case "completed":
		return statusCompleted.Render("● completed")
	default:
		return status
	}
}

// App is the main TUI application model.
type App struct {
	client       *Client
	taskList     list.Model
	meetings     []MeetingRow
	events       []EventRow
	summary      *SummaryInfo
	tab          int
	filterIdx    int
	width        int
	height       int
	message      string
	loading      bool
	daemonOnline bool
}

// New creates a new TUI application.
func New(apiAddr string) *App {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Tasks [ALL]"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &App{
		client:   NewClient(apiAddr),
		taskList: l,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refresh(), a.checkDaemon())
}

// --- Messages ---

type refreshedMsg struct {
	tasks    []TaskRow
	meetings []MeetingRow
	events   []EventRow
	summary  *SummaryInfo
}

type daemonStatusMsg struct {
	online bool
}

type errMsg struct {
	err error
}

func (a *App) refresh() tea.Cmd {
	a.loading = true
	filter := taskFilters[a.filterIdx]
	return func() tea.Msg {
		tasks, err := a.client.ListTasks(filter)
		if err != nil {
			return errMsg{err}
		}
		meetings, err := a.client.ListMeetings()
		if err != nil {
			return errMsg{err}
		}
		events, err := a.client.ListEvents()
		if err != nil {
			return errMsg{err}
		}
		summary, err := a.client.GetSummary()
		if err != nil {
			return errMsg{err}
		}
		return refreshedMsg{tasks: tasks, meetings: meetings, events: events, summary: summary}
	}
}

func (a *App) checkDaemon() tea.Cmd {
	return func() tea.Msg {
		online, _ := a.client.CheckHealth()
		return daemonStatusMsg{online: online}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.taskList.SetSize(msg.Width-2, msg.Height-8)
		return a, nil

	case refreshedMsg:
		a.loading = false
		a.message = ""
		a.meetings = msg.meetings
		a.events = msg.events
		a.summary = msg.summary
		items := make([]list.Item, len(msg.tasks))
		for i, t := range msg.tasks {
			items[i] = taskListItem{row: t}
		}
		a.taskList.SetItems(items)
		return a, nil

	case daemonStatusMsg:
		a.daemonOnline = msg.online
		return a, nil

	case errMsg:
		a.loading = false
		a.message = msg.err.Error()
		return a, nil

	case tea.KeyMsg:
		// Let the list's fuzzy filter swallow keys while active.
		if a.tab == 0 && a.taskList.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab":
			a.tab = (a.tab + 1) % len(tabs)
			return a, nil
		case "r":
			return a, tea.Batch(a.refresh(), a.checkDaemon())
		case "f":
			if a.tab == 0 {
				a.filterIdx = (a.filterIdx + 1) % len(taskFilters)
				a.taskList.Title = fmt.Sprintf("Tasks [%s]", taskFilterNames[a.filterIdx])
				return a, a.refresh()
			}
		}
	}

	if a.tab == 0 {
		var cmd tea.Cmd
		a.taskList, cmd = a.taskList.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.headerView())
	b.WriteString("\n")

	switch a.tab {
	case 0:
		if a.loading {
			b.WriteString("Loading...")
		} else {
			b.WriteString(a.taskList.View())
		}
	case 1:
		b.WriteString(a.meetingsView())
	case 2:
		b.WriteString(a.calendarView())
	}

	b.WriteString("\n")
	b.WriteString(a.footerView())
	return b.String()
}

func (a *App) headerView() string {
	var rendered []string
	for i, name := range tabs {
		if i == a.tab {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, tabStyle.Render(name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	daemon := statusCompleted.Render("● daemon")
	if !a.daemonOnline {
		daemon = offlineStyle.Render("● daemon offline")
	}

	summary := ""
	if a.summary != nil {
		summary = statusBarStyle.Render(fmt.Sprintf(
			"%d meetings │ %d events │ %d tasks │ %.1f%% complete",
			a.summary.TotalMeetings, a.summary.TotalEvents,
			a.summary.TotalTasks, a.summary.CompletionRate))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, row, "  ", daemon) + "\n" + summary
}

func (a *App) meetingsView() string {
	if len(a.meetings) == 0 {
		return helpStyle.Render("No meetings yet. Create one with: cadence meeting add")
	}

	var rows []string
	for _, m := range a.meetings {
		line := fmt.Sprintf("%s  %s", m.Date, titleStyle.Render(m.Title))
		detail := fmt.Sprintf("   %s • %d/%d items scheduled",
			strings.Join(m.Attendees, ", "), m.Placed, m.ItemCount)
		rows = append(rows, line+"\n"+helpStyle.Render(detail))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (a *App) calendarView() string {
	if len(a.events) == 0 {
		return helpStyle.Render("No calendar events. Run: cadence meeting schedule <id>")
	}

	var rows []string
	for _, e := range a.events {
		start := fmt.Sprintf("%02d:%02d", e.Start/60, e.Start%60)
		end := (e.Start + e.Duration)
		line := fmt.Sprintf("%s %s-%02d:%02d  %s",
			e.Date, start, end/60, end%60, e.Title)
		if e.Type == "follow-up" {
			line += "  " + statusInProgress.Render("(follow-up)")
		}
		rows = append(rows, line)
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (a *App) footerView() string {
	help := "tab: switch view • r: refresh • f: filter tasks • q: quit"
	if a.message != "" {
		return offlineStyle.Render(a.message) + "\n" + helpStyle.Render(help)
	}
	return helpStyle.Render(help)
}
