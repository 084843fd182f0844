// Package app is the root Bubble Tea model of the live dashboard: a tabbed
// view over the entity stores, refreshed in the background by the poller.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/crossref"
	"github.com/nhle/study-dashboard/internal/keys"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/store"
	appsync "github.com/nhle/study-dashboard/internal/sync"
	"github.com/nhle/study-dashboard/internal/theme"
	"github.com/nhle/study-dashboard/internal/ui"
	"github.com/nhle/study-dashboard/internal/ui/chat"
	"github.com/nhle/study-dashboard/internal/ui/detail"
	"github.com/nhle/study-dashboard/internal/ui/itemlist"
)

// Section identifies a dashboard tab.
type Section int

const (
	SectionOverview Section = iota
	SectionObjectives
	SectionTasks
	SectionNotes
	SectionChat
	SectionAchievements
	numSections
)

var sectionNames = []string{"Overview", "Objectives", "Tasks", "Notes", "Chat", "Achievements"}

func (s Section) String() string { return sectionNames[s] }

// Model is the root dashboard model.
type Model struct {
	set      *store.Set
	poller   *appsync.Poller
	keys     *keys.KeyMap
	help     help.Model
	spinner  spinner.Model
	layout   ui.Layout
	lists    [numSections]itemlist.Model
	chat     chat.Model
	detail   detail.Model
	active   Section
	chatOpen bool

	// detailOpen shows the detail panel for detailID in the active section.
	detailOpen bool
	detailID   string

	showHelp bool
	ready    bool
	email    string
	flash    string
	flashErr bool
	now      func() time.Time
}

// New creates the dashboard over set. email labels the header.
func New(set *store.Set, poller *appsync.Poller, email string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorWhite)

	m := Model{
		set:     set,
		poller:  poller,
		keys:    keys.DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		chat:    chat.New(set.Chat, 80, 20),
		detail:  detail.New(keys.DefaultKeyMap(), 80, 20),
		email:   email,
		now:     time.Now,
	}
	m.lists[SectionObjectives] = itemlist.New("Objectives", "No objectives yet.\nCreate one with `studydash objectives add`.", 80, 20)
	m.lists[SectionTasks] = itemlist.New("Tasks", "No tasks yet.\nCreate one with `studydash tasks add`.", 80, 20)
	m.lists[SectionNotes] = itemlist.New("Notes", "No notes yet.\nCreate one with `studydash notes add`.", 80, 20)
	m.lists[SectionChat] = itemlist.New("Chat", "No chats yet.\nPress n to start one.", 80, 20)
	m.lists[SectionAchievements] = itemlist.New("Achievements", "No achievements to show.", 80, 20)
	m.reload()
	return m
}

// Init starts background polling and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poller.Start(), m.spinner.Tick)
}

// Active returns the visible section.
func (m Model) Active() Section {
	return m.active
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		for i := range m.lists {
			m.lists[i].SetSize(msg.Width, m.layout.ContentHeight())
		}
		m.chat.SetSize(msg.Width, m.layout.ContentHeight())
		m.detail.SetSize(msg.Width, m.layout.ContentHeight())
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case appsync.SyncResultMsg:
		m.reload()
		if msg.Error != nil {
			m.setFlash(msg.Error.Error(), true)
		}
		return m, m.poller.WaitForNextResult()

	case actionDoneMsg:
		m.reload()
		if msg.err != nil {
			m.setFlash(msg.err.Error(), true)
		} else {
			m.setFlash(msg.verb, false)
		}
		for _, name := range msg.refresh {
			m.poller.Refresh(name)
		}
		if msg.openChat != "" {
			m.active = SectionChat
			m.chatOpen = true
			return m, m.chat.Open(msg.openChat)
		}
		return m, nil

	case chat.SentMsg:
		m.reload()
		m.chat, _ = m.chat.Update(msg)
		if msg.Err == nil {
			m.poller.Refresh("achievements")
		}
		return m, nil

	case chat.CloseMsg:
		m.chatOpen = false
		return m, nil

	case detail.BackMsg:
		m.detailOpen = false
		return m, nil

	case tea.KeyMsg:
		if m.chatOpen {
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			return m, cmd
		}
		if m.detailOpen {
			return m.handleDetailKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.chatOpen {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % numSections
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active + numSections - 1) % numSections
		return m, nil

	case key.Matches(msg, m.keys.Select) && m.hasDetail():
		if row, ok := m.lists[m.active].Selected(); ok {
			m.detailOpen = true
			m.detailID = row.ID()
			m.refreshDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.poller.RefreshAll()
		m.setFlash("refreshing…", false)
		return m, nil
	}

	if cmd := m.actionFor(msg); cmd != nil {
		return m, cmd
	}

	if m.active == SectionOverview {
		return m, nil
	}
	var cmd tea.Cmd
	m.lists[m.active], cmd = m.lists[m.active].Update(msg)
	return m, cmd
}

// handleDetailKey routes keys while the detail panel is open. Item actions
// still apply to the displayed item.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.poller.Stop()
		return m, tea.Quit
	}
	if cmd := m.actionFor(msg); cmd != nil {
		return m, cmd
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) hasDetail() bool {
	switch m.active {
	case SectionObjectives, SectionTasks, SectionNotes:
		return true
	}
	return false
}

// refreshDetail re-renders the detail panel from the stores.
func (m *Model) refreshDetail() {
	now := m.now()
	switch m.active {
	case SectionObjectives:
		if o, ok := m.set.Objectives.Get(m.detailID); ok {
			m.detail.ShowObjective(o, crossref.ForObjective(o, m.set.Tasks.Items(), m.set.Notes.Items()), now)
			return
		}
	case SectionTasks:
		if t, ok := m.set.Tasks.Get(m.detailID); ok {
			m.detail.ShowTask(t, crossref.ForTask(t, m.set.Objectives.Items(), m.set.Notes.Items()), now)
			return
		}
	case SectionNotes:
		if n, ok := m.set.Notes.Get(m.detailID); ok {
			m.detail.ShowNote(n, crossref.ForNote(n, m.set.Objectives.Items(), m.set.Tasks.Items()))
			return
		}
	}
	m.detail.Clear()
}

// reload copies the current store contents into the lists.
func (m *Model) reload() {
	objectives := m.set.Objectives.Items()
	rows := make([]itemlist.Row, len(objectives))
	for i, o := range objectives {
		rows[i] = itemlist.ObjectiveItem{Objective: o}
	}
	m.lists[SectionObjectives].SetRows(rows)

	tasks := m.set.Tasks.Items()
	rows = make([]itemlist.Row, len(tasks))
	for i, t := range tasks {
		rows[i] = itemlist.TaskItem{Task: t}
	}
	m.lists[SectionTasks].SetRows(rows)

	notes := m.set.Notes.Items()
	rows = make([]itemlist.Row, len(notes))
	for i, n := range notes {
		rows[i] = itemlist.NoteItem{Note: n}
	}
	m.lists[SectionNotes].SetRows(rows)

	sessions := m.set.Chat.Items()
	rows = make([]itemlist.Row, len(sessions))
	for i, s := range sessions {
		rows[i] = itemlist.SessionItem{Session: s}
	}
	m.lists[SectionChat].SetRows(rows)

	achievements := m.set.Achievements.Items()
	rows = make([]itemlist.Row, len(achievements))
	for i, a := range achievements {
		rows[i] = itemlist.AchievementItem{Achievement: a}
	}
	m.lists[SectionAchievements].SetRows(rows)

	if m.chatOpen {
		m.chat.Refresh()
	}
	if m.detailOpen {
		m.refreshDetail()
	}
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Study Dashboard"
	if m.email != "" {
		title += " · " + m.email
	}
	header := m.layout.RenderHeader(title, m.syncStatus())
	tabs := m.layout.RenderTabs(sectionNames, int(m.active))
	statusBar := m.layout.RenderStatusBar(m.statusText())

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	if m.showHelp {
		m.help.ShowAll = true
		return theme.PanelStyle.Render(m.help.View(m.keys))
	}
	switch {
	case m.active == SectionOverview:
		return m.renderOverview()
	case m.active == SectionChat && m.chatOpen:
		return m.chat.View()
	case m.detailOpen:
		return m.detail.View()
	default:
		return m.lists[m.active].View()
	}
}

// renderOverview summarizes every store.
func (m Model) renderOverview() string {
	now := m.now()
	label := lipgloss.NewStyle().Bold(true).Width(16)

	objectiveCounts := m.set.Objectives.CountByStatus()
	taskCounts := m.set.Tasks.CountByStatus()

	lines := []string{
		label.Render("Objectives") + fmt.Sprintf("%d total · %d in progress · %d completed · %d overdue",
			m.set.Objectives.Len(),
			objectiveCounts[model.ObjectiveInProgress],
			objectiveCounts[model.ObjectiveCompleted],
			len(m.set.Objectives.Overdue(now))),
		label.Render("Tasks") + fmt.Sprintf("%d to do · %d in progress · %d completed · %d overdue",
			taskCounts[model.TaskTodo],
			taskCounts[model.TaskInProgress],
			taskCounts[model.TaskCompleted],
			len(m.set.Tasks.Overdue(now))),
		label.Render("Notes") + fmt.Sprintf("%d total · %d with AI summary",
			m.set.Notes.Len(), len(m.set.Notes.WithSummary())),
		label.Render("Chats") + fmt.Sprintf("%d sessions", m.set.Chat.Len()),
		label.Render("Achievements") + theme.ProgressBar(m.set.Achievements.Completion(), 20),
	}
	if tags := m.set.Tasks.Tags(); len(tags) > 0 {
		lines = append(lines, label.Render("Tags")+"#"+strings.Join(tags, " #"))
	}

	for _, e := range m.storeErrors() {
		lines = append(lines, theme.ErrorStyle.Render("! "+e))
	}
	return theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

// storeErrors collects the last error of every store.
func (m Model) storeErrors() []string {
	var errs []string
	for _, err := range []error{
		m.set.Objectives.Err(), m.set.Tasks.Err(), m.set.Notes.Err(),
		m.set.Chat.Err(), m.set.Achievements.Err(),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// syncStatus returns a short string describing the combined sync state.
func (m Model) syncStatus() string {
	running := 0
	var failed []string
	for _, s := range m.poller.Statuses() {
		switch s.State {
		case appsync.SyncRunning:
			running++
		case appsync.SyncError:
			failed = append(failed, s.Name)
		}
	}

	if running > 0 {
		return m.spinner.View() + fmt.Sprintf(" syncing (%d)", running)
	}
	if len(failed) > 0 {
		return "⚠ unreachable: " + strings.Join(failed, ", ")
	}
	return "synced"
}

// statusText returns the flash message or key hints for the status bar.
func (m Model) statusText() string {
	if m.flash != "" {
		if m.flashErr {
			return theme.ErrorStyle.Render(m.flash)
		}
		return m.flash
	}
	if m.chatOpen {
		return "enter send | pgup/pgdown scroll | esc close"
	}
	if m.detailOpen {
		return "esc back | j/k scroll | q quit"
	}
	switch m.active {
	case SectionObjectives, SectionTasks:
		return "x complete | p in progress | d delete | r refresh | ? help | q quit"
	case SectionNotes:
		return "s AI summary | d delete | r refresh | ? help | q quit"
	case SectionChat:
		return "enter open | n new chat | d delete | ? help | q quit"
	default:
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
}
