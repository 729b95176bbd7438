package tui

import (
	"context"
	"fmt"
	"strings"

	"phonebook/contact"
	"phonebook/phonebook"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldAddress
	fieldNotes
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Phone", "Email", "Address", "Notes", "Image file"}

// Messages
type (
	loadedMsg struct{ err error }
	doneMsg   struct{ err error }
)

// Model is the bubbletea front end of the phonebook controller. The screen
// follows the controller mode: Idle lists, Editing shows the form and
// ConfirmingDelete asks for confirmation.
type Model struct {
	ctx    context.Context
	ctrl   *phonebook.Controller
	status *StatusLine

	cursor    int
	search    textinput.Model
	searching bool

	inputs []textinput.Model
	focus  int

	busy  bool
	width int
}

func New(ctx context.Context, ctrl *phonebook.Controller, status *StatusLine) *Model {
	search := textinput.New()
	search.Placeholder = "name, phone, email or address"
	search.Prompt = "/ "
	search.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colourBlue))

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colourText))
		inputs[i] = in
	}
	inputs[fieldName].Placeholder = "required"
	inputs[fieldPhone].Placeholder = "required"
	inputs[fieldImage].Placeholder = "path to an image, at most 1MB"
	inputs[fieldImage].CharLimit = 1024

	return &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		status: status,
		search: search,
		inputs: inputs,
		width:  80,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg, doneMsg:
		m.busy = false
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.ctrl.Mode() {
		case phonebook.Editing:
			return m.updateForm(msg)
		case phonebook.ConfirmingDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.ctrl.Search("")
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.ctrl.Search(m.search.Value())
		m.cursor = 0
		return m, cmd
	}

	m.status.Clear()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "v":
		m.ctrl.ToggleFavoritesView()
		m.search.SetValue("")
		m.cursor = 0
	case "r":
		return m, m.load()
	case "n":
		return m, m.openForm(phonebook.Event{Command: phonebook.Create})
	case "e":
		if c, ok := m.selected(); ok {
			return m, m.openForm(phonebook.Event{Command: phonebook.Edit, ContactID: c.ID})
		}
	case "d":
		if c, ok := m.selected(); ok {
			_ = m.ctrl.Dispatch(m.ctx, phonebook.Event{Command: phonebook.Delete, ContactID: c.ID})
		}
	case "f":
		if c, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) error {
				return m.ctrl.Dispatch(ctx, phonebook.Event{Command: phonebook.ToggleFavorite, ContactID: c.ID})
			})
		}
	}
	return m, nil
}

func (m *Model) openForm(e phonebook.Event) tea.Cmd {
	if err := m.ctrl.Dispatch(m.ctx, e); err != nil {
		return nil
	}
	form := m.ctrl.Form()
	values := [fieldCount]string{form.Name, form.Phone, form.Email, form.Address, form.Notes, ""}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	return m.focusField(fieldName)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.ctrl.Cancel()
		m.status.Clear()
		return m, nil
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "ctrl+s":
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	m.status.Clear()
	m.ctrl.SetForm(phonebook.Form{
		Name:    m.inputs[fieldName].Value(),
		Phone:   m.inputs[fieldPhone].Value(),
		Email:   m.inputs[fieldEmail].Value(),
		Address: m.inputs[fieldAddress].Value(),
		Notes:   m.inputs[fieldNotes].Value(),
	})
	if path := strings.TrimSpace(m.inputs[fieldImage].Value()); path != "" {
		if err := m.ctrl.SelectImageFile(path); err != nil {
			m.inputs[fieldImage].SetValue("")
			return nil
		}
	}
	return m.run(m.ctrl.Submit)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		m.status.Clear()
		return m, m.run(m.ctrl.ConfirmDelete)
	case "n", "N", "esc":
		m.ctrl.CancelDelete()
	}
	return m, nil
}

func (m *Model) load() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m *Model) run(f func(context.Context) error) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return doneMsg{err: f(m.ctx)}
	}
}

func (m *Model) selected() (contact.Contact, bool) {
	contacts := m.ctrl.View().Contacts
	if m.cursor < 0 || m.cursor >= len(contacts) {
		return contact.Contact{}, false
	}
	return contacts[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Contacts)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	var b strings.Builder
	switch m.ctrl.Mode() {
	case phonebook.Editing:
		b.WriteString(m.renderForm())
	case phonebook.ConfirmingDelete:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.renderList())
	}

	if warning := m.status.String(); warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("✗ " + warning))
	}
	return b.String()
}

func (m *Model) renderList() string {
	view := m.ctrl.View()
	var b strings.Builder

	title := fmt.Sprintf("Phonebook (%d contacts, %d favorites)", view.Total, view.FavoritesCount)
	if m.busy {
		title += " …"
	}
	b.WriteString(headerStyle.Width(m.width).Render(title))
	b.WriteString("\n")

	if view.FavoritesHeader {
		b.WriteString(favoritesHeaderStyle.Render(fmt.Sprintf("★ Favorites (%d)", view.FavoritesCount)))
		b.WriteString("\n")
	}
	if m.searching || view.Query != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch view.Empty {
	case phonebook.EmptyNoContacts:
		b.WriteString(emptyStyle.Render("No contacts found."))
	case phonebook.EmptyNoFavorites:
		b.WriteString(emptyStyle.Render("No favorite contacts yet."))
	default:
		for i, c := range view.Contacts {
			b.WriteString(m.renderItem(c, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[n]ew [e]dit [d]elete [f]avorite [v] favorites view [/]search [r]eload [q]uit"))
	return b.String()
}

func (m *Model) renderItem(c contact.Contact, selected bool) string {
	star := "  "
	if c.Favorite {
		star = starStyle.Render("★ ")
	}

	name := lipgloss.NewStyle().Bold(true).Width(24).Render(truncate(c.Name, 22))
	line := star + name + phoneStyle.Width(16).Render(c.Phone)

	var details []string
	for _, d := range []string{c.Email, c.Address} {
		if d != "" {
			details = append(details, d)
		}
	}
	if c.Image != "" {
		details = append(details, "[image]")
	}
	if len(details) > 0 {
		line += detailStyle.Render(strings.Join(details, " · "))
	}

	if selected {
		return selectedItemStyle.Width(m.width).Render(line)
	}
	return itemStyle.Render(line)
}

func (m *Model) renderForm() string {
	title := "Add contact"
	if _, ok := m.ctrl.EditingID(); ok {
		title = "Edit contact"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.ctrl.HasPendingImage() {
		b.WriteString(detailStyle.Render("image attached"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	save := buttonStyle.Render("ctrl+s save")
	if m.busy {
		save = buttonStyle.Render("saving…")
	}
	b.WriteString(save + helpStyle.Render("tab next field · esc cancel"))
	return dialogStyle.Render(b.String())
}

func (m *Model) renderConfirm() string {
	c, _ := m.ctrl.PendingDelete()
	text := fmt.Sprintf("Delete %s (%s)?\n\n[y]es  [n]o", c.Name, c.Phone)
	return confirmStyle.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
