// Package resourcelist is the shared list view for every backend
// resource: invoices, purchases, expenses, suppliers, and returns. The
// app decides which screen is active and feeds rows in; the list owns
// selection, client-side search, and per-row actions.
package resourcelist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/tally/internal/keys"
	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/theme"
)

// Screen identifies which resource the list is showing.
type Screen string

const (
	ScreenInvoices  Screen = "invoices"
	ScreenPurchases Screen = "purchases"
	ScreenExpenses  Screen = "expenses"
	ScreenSuppliers Screen = "suppliers"
	ScreenReturns   Screen = "returns"
)

// Title returns the header title for the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenInvoices:
		return "Invoices"
	case ScreenPurchases:
		return "Purchases"
	case ScreenExpenses:
		return "Expenses"
	case ScreenSuppliers:
		return "Suppliers"
	case ScreenReturns:
		return "Returns"
	default:
		return string(s)
	}
}

// RowsLoadedMsg delivers rows for a screen. Rows for an inactive screen
// are ignored.
type RowsLoadedMsg struct {
	Screen Screen
	Rows   []model.Row
}

// SelectedMsg is sent when the user opens a row.
type SelectedMsg struct {
	Screen Screen
	ID     string
}

// DeleteRequestMsg asks the app to delete a row on the backend.
type DeleteRequestMsg struct {
	Screen Screen
	ID     string
	Title  string
}

// NewRequestMsg asks the app to open the create form for the screen.
type NewRequestMsg struct {
	Screen Screen
}

// Model is the resource list view component.
type Model struct {
	list        list.Model
	screen      Screen
	rows        []model.Row
	query       string
	searchMode  bool
	searchInput textinput.Model
	stale       *bool
	keys        *keys.KeyMap
	width       int
	height      int
}

// New creates a resource list starting on the invoices screen.
func New(k *keys.KeyMap, currency string, width, height int) Model {
	stale := new(bool)

	l := list.New([]list.Item{}, rowDelegate{currency: currency, stale: stale}, width, height-2)
	l.Title = ScreenInvoices.Title()
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		screen:      ScreenInvoices,
		stale:       stale,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// SetScreen switches the active screen, clearing search state. The app
// follows up with a RowsLoadedMsg for the new screen.
func (m *Model) SetScreen(s Screen) {
	m.screen = s
	m.rows = nil
	m.query = ""
	m.searchMode = false
	m.searchInput.Reset()
	m.list.Title = s.Title()
	m.list.SetItems([]list.Item{})
}

// SetStale flags that the latest refresh for this screen failed, so
// rows shown are a cached snapshot.
func (m *Model) SetStale(stale bool) {
	*m.stale = stale
}

// SelectedRow returns the currently highlighted row.
func (m Model) SelectedRow() (model.Row, bool) {
	item, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return nil, false
	}
	return item.row, true
}

// Query returns the active search query, for status bar hints.
func (m Model) Query() string {
	return m.query
}

// Searching reports whether the search input has keyboard focus, so
// the app can keep global shortcuts out of typed text.
func (m Model) Searching() bool {
	return m.searchMode
}

// Init returns the initial command for the list view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the resource list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RowsLoadedMsg:
		if msg.Screen != m.screen {
			return m, nil
		}
		m.rows = msg.Rows
		return m, m.applyFilter()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.applyFilter()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		row, ok := m.SelectedRow()
		if !ok {
			return m, nil
		}
		screen := m.screen
		return m, func() tea.Msg {
			return SelectedMsg{Screen: screen, ID: row.RowID()}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.SelectedRow()
		if !ok {
			return m, nil
		}
		screen := m.screen
		return m, func() tea.Msg {
			return DeleteRequestMsg{Screen: screen, ID: row.RowID(), Title: row.RowTitle()}
		}

	case key.Matches(msg, m.keys.New):
		screen := m.screen
		return m, func() tea.Msg {
			return NewRequestMsg{Screen: screen}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyFilter rebuilds the visible items from the fetched rows and the
// active query.
func (m *Model) applyFilter() tea.Cmd {
	items := make([]list.Item, 0, len(m.rows))
	for _, row := range m.rows {
		if matchesQuery(row, m.query) {
			items = append(items, rowItem{row: row})
		}
	}
	return m.list.SetItems(items)
}

// View renders the resource list.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no rows are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matches.\nPress / to change the search.")
	}

	return style.Render("Nothing here yet.\n\nPress r to refresh from the backend.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
