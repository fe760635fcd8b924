package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Screen switching
	ScreenInvoices  key.Binding
	ScreenPurchases key.Binding
	ScreenExpenses  key.Binding
	ScreenSuppliers key.Binding
	ScreenReturns   key.Binding

	// Record actions
	New    key.Binding
	Delete key.Binding
	Export key.Binding

	// Toast dismissal
	DismissToast key.Binding

	// Session
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ScreenInvoices: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "invoices"),
		),
		ScreenPurchases: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "purchases"),
		),
		ScreenExpenses: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "expenses"),
		),
		ScreenSuppliers: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "suppliers"),
		),
		ScreenReturns: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "returns"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new record"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete record"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		DismissToast: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "dismiss toast"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh},
		{k.ScreenInvoices, k.ScreenPurchases, k.ScreenExpenses, k.ScreenSuppliers, k.ScreenReturns},
		{k.New, k.Delete, k.Export, k.DismissToast, k.Logout},
	}
}
