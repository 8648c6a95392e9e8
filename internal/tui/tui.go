package tui

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/ui"
	"github.com/idilsaglam/shoplist/internal/viewmodel"
)

type Options struct {
	DebugLog string // log file path; empty discards log output while the TUI owns the screen
}

// Run starts the interactive list and blocks until the user quits.
func Run(store viewmodel.ItemStore, opt Options) error {
	prev := log.Writer()
	defer log.SetOutput(prev)
	if opt.DebugLog != "" {
		f, err := tea.LogToFile(opt.DebugLog, "shoplist")
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(New(viewmodel.NewList(store)), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// rowItem adapts a row view-model to bubbles/list.Item
type rowItem struct {
	row *viewmodel.ItemViewModel
}

func (i rowItem) FilterValue() string { return i.row.Item().Title }

// single-line rows
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	t := ui.Current()
	row := it.row.Item()

	box := t.Muted.Render(ui.Glyph(it.row.CheckIcon()))
	title := row.Title
	if row.IsPurchased {
		box = t.Success.Render(ui.Glyph(it.row.CheckIcon()))
		title = t.Done.Render(title)
	}
	star := ui.Glyph(it.row.StarIcon())
	if row.IsBookmarked {
		star = t.Pending.Render(star)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, box, star, title)
}

type keyMap struct {
	Quit, Toggle, Star, Add, Refresh key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "bought")),
		Star:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// listMsg reports that the list view-model republished (or failed to).
type listMsg struct{ err error }

// Model is the Bubble Tea model for the list screen.
type Model struct {
	vm   *viewmodel.ListViewModel
	list list.Model
	keys keyMap

	// inline add
	adding bool
	ti     textinput.Model

	status string // last error or hint, shown under the list

	width, height int
}

func New(vm *viewmodel.ListViewModel) Model {
	keys := newKeyMap()

	l := list.New(nil, rowDelegate{}, 0, 0)
	l.Title = header(nil)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding { return []key.Binding{keys.Toggle, keys.Star, keys.Add, keys.Refresh} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What do you need to buy?"
	ti.CharLimit = 200

	return Model{vm: vm, list: l, keys: keys, ti: ti, width: 80, height: 24}
}

// Init fires the list's "appeared" trigger.
func (m Model) Init() tea.Cmd { return m.appear }

func (m Model) appear() tea.Msg { return listMsg{err: m.vm.Appeared()} }

// addPressed submits the input, then empties it so a later refresh does not add the title again.
func (m Model) addPressed() tea.Msg {
	err := m.vm.AddPressed()
	if err == nil {
		m.vm.SetInput("")
	}
	return listMsg{err: err}
}

// Items returns the rows currently shown, in list order.
func (m Model) Items() []model.Item {
	out := make([]model.Item, 0, len(m.list.Items()))
	for _, li := range m.list.Items() {
		if r, ok := li.(rowItem); ok {
			out = append(out, r.row.Item())
		}
	}
	return out
}

func (m Model) Status() string { return m.status }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case listMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.status = ""
		cmd := m.reload()
		return m, cmd
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if k, isKey := msg.(tea.KeyMsg); isKey && !m.list.SettingFilter() {
		switch {
		case key.Matches(k, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(k, m.keys.Toggle):
			cmd := m.toggle((*viewmodel.ItemViewModel).TogglePurchased)
			return m, cmd
		case key.Matches(k, m.keys.Star):
			cmd := m.toggle((*viewmodel.ItemViewModel).ToggleBookmarked)
			return m, cmd
		case key.Matches(k, m.keys.Add):
			m.adding = true
			m.status = ""
			m.ti.SetValue("")
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(k, m.keys.Refresh):
			return m, m.appear
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, isKey := msg.(tea.KeyMsg); isKey {
		switch k.String() {
		case "enter":
			title := m.ti.Value()
			if title == "" {
				m.status = "Title cannot be empty"
				return *m, nil
			}
			m.vm.SetInput(title)
			m.ti.SetValue("")
			m.ti.Blur()
			m.adding = false
			m.resize()
			return *m, m.addPressed
		case "esc":
			m.adding = false
			m.status = ""
			m.ti.SetValue("")
			m.ti.Blur()
			m.resize()
			return *m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return *m, cmd
}

// reload rebuilds the rows from the view-model's published collection.
// Rows get fresh copies, which also resyncs anything toggled earlier.
func (m *Model) reload() tea.Cmd {
	rows := m.vm.Rows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, rowItem{row: r})
	}
	cmd := m.list.SetItems(items)
	m.list.Title = header(m.Items())
	return cmd
}

func (m *Model) toggle(flip func(*viewmodel.ItemViewModel) error) tea.Cmd {
	sel, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return nil
	}
	if err := flip(sel.row); err != nil {
		m.status = "error: " + err.Error()
		return nil
	}
	m.status = ""
	// SetItem indexes the unfiltered list.
	var cmd tea.Cmd
	for i, li := range m.list.Items() {
		if r, ok := li.(rowItem); ok && r.row == sel.row {
			cmd = m.list.SetItem(i, sel)
			break
		}
	}
	m.list.Title = header(m.Items())
	return cmd
}

func (m *Model) resize() {
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		title := "Add item"
		if m.status != "" {
			title += " - " + t.Error.Render(m.status)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	} else if m.status != "" {
		content += "\n" + t.Error.Render(m.status)
	}
	return ui.Panel(strings.Split(content, "\n"))
}

// header is the list title with live counts.
func header(items []model.Item) string {
	t := ui.Current()
	purchased, pending := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Shopping list",
		t.Success.Render(t.SymOK), purchased,
		t.Pending.Render("•"), pending,
		t.Accent.Render("Total"), len(items),
	)
}
