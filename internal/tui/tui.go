// Package tui is the terminal frontend. It drives the same view.Model as the
// HTML frontend, with API calls running as tea commands whose view.Outcome
// comes back as a message.
//
// # Thread Safety
//
// The Model is only touched from the bubbletea event loop. Commands capture
// what they need by value and never read the view state.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asmundstavdahl/notes/internal/view"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeCreate
	modeEdit
)

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the note list.
type Model struct {
	ctx    context.Context
	api    view.API
	notes  *view.Model
	logger *slog.Logger

	mode   mode
	cursor int
	editID string

	title   textinput.Model
	content textinput.Model
	search  textinput.Model

	quitting bool
}

// New returns a Model backed by api. ctx bounds every API call.
func New(ctx context.Context, api view.API, logger *slog.Logger) Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = "Title:   "
	title.CharLimit = 200

	content := textinput.New()
	content.Placeholder = "Content"
	content.Prompt = "Content: "

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.Prompt = "/ "

	return Model{
		ctx:     ctx,
		api:     api,
		notes:   view.NewModel(),
		logger:  logger,
		title:   title,
		content: content,
		search:  search,
	}
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, api view.API, logger *slog.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(New(ctx, api, logger), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.Outcome:
		if err := msg.Apply(m.notes); err != nil {
			m.logger.Warn("note action failed", "action", msg.Action(), "error", err)
			return m, nil
		}
		switch msg.Op {
		case view.OpCreate:
			if m.mode == modeCreate {
				m.closeForm()
			}
		case view.OpSave:
			if m.mode == modeEdit && m.editID == msg.ID {
				m.closeForm()
			}
		}
		m.clampCursor()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeCreate, modeEdit:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.notes.Visible())-1 {
			m.cursor++
		}

	case "n":
		m.mode = modeCreate
		m.title.Reset()
		m.content.Reset()
		m.focusField(0)

	case "e":
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.notes.Edit(item.Note.ID); err != nil {
			return m, nil
		}
		draft := m.notes.State(item.Note.ID).(view.Editing)
		m.mode = modeEdit
		m.editID = item.Note.ID
		m.title.SetValue(draft.DraftTitle)
		m.content.SetValue(draft.DraftContent)
		m.focusField(0)

	case "d":
		if item, ok := m.selected(); ok {
			return m, m.remove(item.Note.ID)
		}

	case "/":
		m.notes.ToggleSearch()
		if m.notes.SearchOpen() {
			m.mode = modeSearch
			m.search.Focus()
		} else {
			m.search.Blur()
		}

	case "r":
		return m, m.load()

	case "esc":
		m.notes.ClearNotice()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.notes.SetSearch(m.search.Value())
	m.clampCursor()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeEdit {
			_ = m.notes.Cancel(m.editID)
		}
		m.closeForm()
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if m.title.Focused() {
			m.focusField(1)
		} else {
			m.focusField(0)
		}
		return m, nil

	case tea.KeyEnter:
		title, content := m.title.Value(), m.content.Value()
		if m.mode == modeCreate {
			return m, m.create(title, content)
		}
		if err := m.notes.SetDraft(m.editID, title, content); err != nil {
			m.closeForm()
			return m, nil
		}
		return m, m.save(m.editID, title, content)
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(i int) {
	if i == 0 {
		m.content.Blur()
		m.title.Focus()
		return
	}
	m.title.Blur()
	m.content.Focus()
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.editID = ""
	m.title.Blur()
	m.content.Blur()
	m.title.Reset()
	m.content.Reset()
}

func (m *Model) clampCursor() {
	n := len(m.notes.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (view.Item, bool) {
	items := m.notes.Visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return view.Item{}, false
	}
	return items[m.cursor], true
}

// =============================================================================
// Commands
// =============================================================================

// call runs one API call as a command; its view.Outcome comes back through
// Update.
func (m Model) call(fn func(ctx context.Context, api view.API) view.Outcome) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return fn(ctx, api)
	}
}

func (m Model) load() tea.Cmd {
	return m.call(view.FetchNotes)
}

func (m Model) create(title, content string) tea.Cmd {
	return m.call(func(ctx context.Context, api view.API) view.Outcome {
		return view.CreateNote(ctx, api, title, content)
	})
}

func (m Model) save(id, title, content string) tea.Cmd {
	return m.call(func(ctx context.Context, api view.API) view.Outcome {
		return view.SaveNote(ctx, api, id, title, content)
	})
}

func (m Model) remove(id string) tea.Cmd {
	return m.call(func(ctx context.Context, api view.API) view.Outcome {
		return view.DeleteNote(ctx, api, id)
	})
}

// =============================================================================
// View
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Notes"))
	b.WriteString("\n")
	if m.notes.SearchOpen() {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if notice := m.notes.Notice(); notice != "" {
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.notes.Empty() {
		b.WriteString(placeholderStyle.Render(view.EmptyPlaceholder))
		b.WriteString("\n")
	} else {
		for i, item := range m.notes.Visible() {
			b.WriteString(m.renderItem(item, i == m.cursor))
			b.WriteString("\n")
		}
	}

	switch m.mode {
	case modeCreate, modeEdit:
		heading := "New note"
		if m.mode == modeEdit {
			heading = "Edit note"
		}
		b.WriteString("\n")
		b.WriteString(formStyle.Render(heading + "\n" + m.title.View() + "\n" + m.content.View()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter save • tab switch field • esc cancel"))
	case modeSearch:
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • enter/esc done"))
	default:
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("j/k move • n new • e edit • d delete • / search • r reload • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderItem(item view.Item, selected bool) string {
	marker := "  "
	style := itemStyle
	if selected {
		marker = "> "
		style = selectedStyle
	}
	header := item.Note.Title
	if item.Editing() {
		header += " " + editingBadge.Render("editing")
	}
	date := dateStyle.Render(view.FormatDate(item.Note.CreatedAt))
	return style.Render(marker+header) + "  " + date + "\n    " + item.Note.Content
}

// =============================================================================
// Styles
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	editingBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("58")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	placeholderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("245"))

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("75")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
