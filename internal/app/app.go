// Package app is the root Bubble Tea model. It routes between views,
// gates everything behind the session state, and composes the layout
// with the toast overlay.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/cache"
	"github.com/ledgerline/tally/internal/config"
	"github.com/ledgerline/tally/internal/session"
	appsync "github.com/ledgerline/tally/internal/sync"
	"github.com/ledgerline/tally/internal/toast"
	"github.com/ledgerline/tally/internal/ui"
	"github.com/ledgerline/tally/internal/ui/command"
	"github.com/ledgerline/tally/internal/ui/expenseform"
	helpview "github.com/ledgerline/tally/internal/ui/help"
	"github.com/ledgerline/tally/internal/ui/invoicedetail"
	"github.com/ledgerline/tally/internal/ui/login"
	"github.com/ledgerline/tally/internal/ui/resourcelist"
	"github.com/ledgerline/tally/internal/ui/supplierform"
	"github.com/ledgerline/tally/internal/ui/toasts"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	// ViewLoading is shown while the session state is still unknown.
	ViewLoading ViewState = iota
	ViewLogin
	ViewList
	ViewDetail
	ViewSupplierForm
	ViewExpenseForm
	ViewHelp
	ViewCommand
)

// Deps carries the long-lived services constructed in main and injected
// into the root model.
type Deps struct {
	Config    *config.Config
	Session   *session.Manager
	Client    *api.Client
	Cache     *cache.Cache
	Refresher *appsync.Refresher
	Toasts    *toast.Center
	ExportDir string
	Log       logrus.FieldLogger
}

// Model is the root Bubble Tea model that manages view routing, layout,
// session gating, and the toast overlay.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg       *config.Config
	session   *session.Manager
	client    *api.Client
	cache     *cache.Cache
	refresher *appsync.Refresher
	toasts    *toast.Center
	exportDir string
	log       logrus.FieldLogger

	keys         *KeyMap
	listView     resourcelist.Model
	detailView   invoicedetail.Model
	loginView    login.Model
	supplierForm supplierform.Model
	expenseForm  expenseform.Model
	helpView     helpview.Model
	commandView  command.Model
	toastView    toasts.Model

	staleScreens map[resourcelist.Screen]bool
	ready        bool
}

// New creates the root application model.
func New(deps Deps) Model {
	keys := DefaultKeyMap()
	currency := deps.Config.Display.Currency

	return Model{
		currentView:  ViewLoading,
		cfg:          deps.Config,
		session:      deps.Session,
		client:       deps.Client,
		cache:        deps.Cache,
		refresher:    deps.Refresher,
		toasts:       deps.Toasts,
		exportDir:    deps.ExportDir,
		log:          deps.Log,
		keys:         keys,
		listView:     resourcelist.New(keys, currency, 80, 24),
		detailView:   invoicedetail.New(keys, currency, 80, 24),
		loginView:    login.New(80, 24),
		supplierForm: supplierform.New(80, 24),
		expenseForm:  expenseform.New(80, 24),
		helpView:     helpview.New(keys, 80, 24),
		commandView:  command.New(80, 24),
		toastView:    toasts.New(deps.Toasts, 80),
		staleScreens: make(map[resourcelist.Screen]bool),
	}
}

// Init restores the persisted session before anything renders.
func (m Model) Init() tea.Cmd {
	return m.restoreSession()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.listView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.loginView.SetSize(contentWidth, contentHeight)
		m.supplierForm.SetSize(contentWidth, contentHeight)
		m.expenseForm.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.toastView.SetWidth(contentWidth)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionRestoredMsg:
		if msg.status == session.StatusAuthenticated {
			m.currentView = ViewList
			m.refresher.Resume()
			return m, tea.Batch(m.refresher.Start(), m.loadRows(m.listView.Screen()))
		}
		m.currentView = ViewLogin
		m.refresher.Pause()
		return m, m.loginView.Start()

	case login.SubmitLoginMsg:
		m.loginView.SetPending(true)
		return m, m.doLogin(msg.Email, msg.Password)

	case login.SubmitSignupMsg:
		m.loginView.SetPending(true)
		return m, m.doSignup(msg.Name, msg.Email, msg.Password)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case appsync.RefreshResultMsg:
		return m.handleRefreshResult(msg)

	case resourcelist.RowsLoadedMsg:
		var cmd tea.Cmd
		m.listView, cmd = m.listView.Update(msg)
		m.listView.SetStale(m.staleScreens[msg.Screen])
		return m, cmd

	case resourcelist.SelectedMsg:
		if msg.Screen != resourcelist.ScreenInvoices {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetLoading(true)
		return m, m.loadInvoiceDetail(msg.ID)

	case resourcelist.DeleteRequestMsg:
		return m, m.deleteRecord(msg.Screen, msg.ID, msg.Title)

	case resourcelist.NewRequestMsg:
		return m.openCreateForm(msg.Screen)

	case supplierform.CreatedMsg:
		m.currentView = ViewList
		return m, m.createSupplier(msg.Supplier)

	case supplierform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case expenseform.CreatedMsg:
		m.currentView = ViewList
		return m, m.createExpense(msg.Expense)

	case expenseform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case invoicedetail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detailFailedMsg:
		m.currentView = ViewList
		m.toasts.Error(msg.message)
		return m, m.toastView.Activate()

	case invoicedetail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case invoicedetail.ExportRequestMsg:
		return m, m.exportInvoice(msg.Invoice)

	case exportDoneMsg:
		if msg.err != nil {
			m.toasts.Error("Export failed")
		} else {
			m.toasts.Success("Exported to " + msg.path)
		}
		return m, m.toastView.Activate()

	case recordDeletedMsg:
		if msg.err != nil {
			m.toasts.Error(errorMessage(msg.err))
			return m, m.toastView.Activate()
		}
		m.toasts.Success(fmt.Sprintf("Deleted %q", msg.title))
		m.refresher.RefreshNow()
		return m, m.toastView.Activate()

	case recordCreatedMsg:
		if msg.err != nil {
			m.toasts.Error(errorMessage(msg.err))
			return m, m.toastView.Activate()
		}
		m.toasts.Success(msg.label + " created")
		m.refresher.RefreshNow()
		return m, m.toastView.Activate()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case toasts.TickMsg:
		var cmd tea.Cmd
		m.toastView, cmd = m.toastView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if handled, model, cmd := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleAuthResult applies the outcome of a login or signup attempt.
func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, session.ErrAuthInFlight) {
			m.loginView.SetPending(true)
			return m, nil
		}
		var authErr *session.AuthError
		message := "Something went wrong"
		if errors.As(msg.err, &authErr) {
			message = authErr.Message
		}
		m.toasts.Error(message)
		return m, tea.Batch(m.loginView.SetError(message), m.toastView.Activate())
	}

	user := m.session.User()
	m.toasts.Success("Welcome, " + user.Name)
	m.currentView = ViewList
	m.listView.SetScreen(resourcelist.ScreenInvoices)
	m.refresher.Resume()
	return m, tea.Batch(
		m.refresher.Start(),
		m.loadRows(resourcelist.ScreenInvoices),
		m.toastView.Activate(),
	)
}

// handleRefreshResult reacts to one background refresh completing.
func (m Model) handleRefreshResult(msg appsync.RefreshResultMsg) (tea.Model, tea.Cmd) {
	rearm := m.refresher.WaitForNextResult()

	if msg.Unauthorized {
		// Only the first rejected fetch triggers the redirect; the rest
		// of the batch sees an already-anonymous session.
		if m.session.Status() == session.StatusAuthenticated {
			m.session.Invalidate()
			m.refresher.Pause()
			m.currentView = ViewLogin
			m.toasts.Error("Your session has expired. Please sign in again.")
			return m, tea.Batch(rearm, m.loginView.Start(), m.toastView.Activate())
		}
		return m, rearm
	}

	screen := resourcelist.Screen(msg.Resource)
	m.staleScreens[screen] = msg.Error != nil
	if screen == m.listView.Screen() {
		m.listView.SetStale(msg.Error != nil)
		if msg.Error == nil {
			return m, tea.Batch(rearm, m.loadRows(screen))
		}
	}
	return m, rearm
}

// openCreateForm routes the new-record key to the matching form.
func (m Model) openCreateForm(screen resourcelist.Screen) (tea.Model, tea.Cmd) {
	switch screen {
	case resourcelist.ScreenSuppliers:
		m.previousView = m.currentView
		m.currentView = ViewSupplierForm
		return m, m.supplierForm.Start()
	case resourcelist.ScreenExpenses:
		m.previousView = m.currentView
		m.currentView = ViewExpenseForm
		return m, m.expenseForm.Start()
	default:
		m.toasts.Info("Creating " + string(screen) + " is done on the web app")
		return m, m.toastView.Activate()
	}
}

// handleGlobalKeys processes keys that work across views. Returns false
// when the key should fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// Always available, even while a form has focus.
	switch msg.String() {
	case "ctrl+c":
		m.refresher.Stop()
		return true, m, tea.Quit
	}

	if key.Matches(msg, m.keys.DismissToast) {
		m.toasts.DismissNewest()
		return true, m, nil
	}

	// Text-input views own the rest of the keyboard.
	if m.currentView == ViewLogin || m.currentView == ViewSupplierForm ||
		m.currentView == ViewExpenseForm || m.currentView == ViewCommand {
		return false, m, nil
	}
	if m.currentView == ViewList && m.listView.Searching() {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewList {
			m.refresher.Stop()
			return true, m, tea.Quit
		}

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Refresh):
		if m.currentView == ViewList {
			m.refresher.RefreshNow()
			return true, m, nil
		}

	case key.Matches(msg, m.keys.Logout):
		model, cmd := m.doLogout()
		return true, model, cmd

	case key.Matches(msg, m.keys.ScreenInvoices):
		return m.switchScreen(resourcelist.ScreenInvoices)
	case key.Matches(msg, m.keys.ScreenPurchases):
		return m.switchScreen(resourcelist.ScreenPurchases)
	case key.Matches(msg, m.keys.ScreenExpenses):
		return m.switchScreen(resourcelist.ScreenExpenses)
	case key.Matches(msg, m.keys.ScreenSuppliers):
		return m.switchScreen(resourcelist.ScreenSuppliers)
	case key.Matches(msg, m.keys.ScreenReturns):
		return m.switchScreen(resourcelist.ScreenReturns)
	}

	return false, m, nil
}

// switchScreen activates a list screen when the list is reachable.
func (m Model) switchScreen(screen resourcelist.Screen) (bool, tea.Model, tea.Cmd) {
	if m.currentView != ViewList && m.currentView != ViewDetail {
		return false, m, nil
	}
	m.currentView = ViewList
	m.listView.SetScreen(screen)
	m.listView.SetStale(m.staleScreens[screen])
	return true, m, m.loadRows(screen)
}

// doLogout clears the session and local snapshots and returns to login.
func (m Model) doLogout() (Model, tea.Cmd) {
	m.session.Logout()
	m.refresher.Pause()
	m.currentView = ViewLogin
	m.toasts.Info("Signed out")
	m.staleScreens = make(map[resourcelist.Screen]bool)
	return m, tea.Batch(
		m.clearCache(),
		m.loginView.Start(),
		m.toastView.Activate(),
	)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewList:
		m.listView, cmd = m.listView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewSupplierForm:
		m.supplierForm, cmd = m.supplierForm.Update(msg)
	case ViewExpenseForm:
		m.expenseForm, cmd = m.expenseForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Tally"
	if user := m.session.User(); !user.IsZero() {
		headerTitle = "Tally · " + user.BusinessName
	}

	header := m.layout.RenderHeader(headerTitle, m.refreshStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithToasts(header, content, m.toastView.View(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLoading:
		return "Restoring session..."
	case ViewLogin:
		return m.loginView.View()
	case ViewList:
		return m.listView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewSupplierForm:
		return m.supplierForm.View()
	case ViewExpenseForm:
		return m.expenseForm.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// refreshStatus returns a short string describing the refresh state.
func (m Model) refreshStatus() string {
	if m.session.Status() != session.StatusAuthenticated {
		return ""
	}

	statuses := m.refresher.Statuses()
	running := 0
	var staleNames []string
	for _, s := range statuses {
		switch s.State {
		case appsync.RefreshRunning:
			running++
		case appsync.RefreshError:
			staleNames = append(staleNames, s.Resource)
		}
	}

	if running > 0 {
		return "refreshing..."
	}
	if len(staleNames) > 0 {
		return "⚠ stale: " + joinNames(staleNames)
	}
	return "up to date"
}

// joinNames joins resource names for display.
func joinNames(names []string) string {
	if len(names) == 0 {
		return ""
	}
	result := names[0]
	for i := 1; i < len(names); i++ {
		result += ", " + names[i]
	}
	return result
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | ctrl+s switch mode | ctrl+c quit"
	case ViewHelp:
		return "? close help"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | x export | j/k scroll"
	case ViewSupplierForm, ViewExpenseForm:
		return "enter submit | esc cancel"
	case ViewList:
		hints := "q quit | ? help | / search | r refresh | 1-5 screens"
		switch m.listView.Screen() {
		case resourcelist.ScreenSuppliers, resourcelist.ScreenExpenses:
			hints += " | n new | d delete"
		case resourcelist.ScreenInvoices:
			hints += " | enter open | d delete"
		default:
			hints += " | d delete"
		}
		if q := m.listView.Query(); q != "" {
			hints = fmt.Sprintf("filter: %q | %s", q, hints)
		}
		return hints
	default:
		return ""
	}
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "invoices":
		_, model, c := m.switchScreen(resourcelist.ScreenInvoices)
		return model, c
	case "purchases":
		_, model, c := m.switchScreen(resourcelist.ScreenPurchases)
		return model, c
	case "expenses":
		_, model, c := m.switchScreen(resourcelist.ScreenExpenses)
		return model, c
	case "suppliers":
		_, model, c := m.switchScreen(resourcelist.ScreenSuppliers)
		return model, c
	case "returns":
		_, model, c := m.switchScreen(resourcelist.ScreenReturns)
		return model, c
	case "refresh", "sync":
		m.refresher.RefreshNow()
		return m, nil
	case "new":
		return m.openCreateForm(m.listView.Screen())
	case "logout":
		model, cmd := m.doLogout()
		return model, cmd
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case "quit", "q":
		m.refresher.Stop()
		return m, tea.Quit
	default:
		m.toasts.Warning("Unknown command: " + cmd)
		return m, m.toastView.Activate()
	}
}
