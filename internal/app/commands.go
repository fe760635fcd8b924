package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/cache"
	"github.com/ledgerline/tally/internal/export"
	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/session"
	"github.com/ledgerline/tally/internal/ui/invoicedetail"
	"github.com/ledgerline/tally/internal/ui/resourcelist"
)

// sessionRestoredMsg carries the session state resolved at startup.
type sessionRestoredMsg struct {
	status session.Status
}

// authResultMsg is sent after a login or signup attempt finishes.
type authResultMsg struct {
	err error
}

// recordDeletedMsg is sent after a backend delete completes.
type recordDeletedMsg struct {
	screen resourcelist.Screen
	title  string
	err    error
}

// recordCreatedMsg is sent after a backend create completes.
type recordCreatedMsg struct {
	label string
	err   error
}

// detailFailedMsg is sent when an invoice detail fetch fails.
type detailFailedMsg struct {
	message string
}

// exportDoneMsg is sent after an invoice export attempt.
type exportDoneMsg struct {
	path string
	err  error
}

// restoreSession resolves the persisted session exactly once at startup.
func (m Model) restoreSession() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return sessionRestoredMsg{status: s.Restore()}
	}
}

// doLogin exchanges credentials for a session.
func (m Model) doLogin(email, password string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return authResultMsg{err: s.Login(context.Background(), email, password)}
	}
}

// doSignup registers a new account.
func (m Model) doSignup(name, email, password string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return authResultMsg{err: s.Signup(context.Background(), name, email, password)}
	}
}

// loadRows reads the cached snapshot for a screen and hands it to the
// list view. Lists always render from the cache; the refresher is the
// only writer.
func (m Model) loadRows(screen resourcelist.Screen) tea.Cmd {
	c := m.cache
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		var rows []model.Row
		var err error

		switch screen {
		case resourcelist.ScreenInvoices:
			var invoices []model.Invoice
			invoices, err = c.Invoices(ctx)
			rows = toRows(invoices)
		case resourcelist.ScreenPurchases:
			var purchases []model.Purchase
			purchases, err = c.Purchases(ctx)
			rows = toRows(purchases)
		case resourcelist.ScreenExpenses:
			var expenses []model.Expense
			expenses, err = c.Expenses(ctx)
			rows = toRows(expenses)
		case resourcelist.ScreenSuppliers:
			var suppliers []model.Supplier
			suppliers, err = c.Suppliers(ctx)
			rows = toRows(suppliers)
		case resourcelist.ScreenReturns:
			var returns []model.Return
			returns, err = c.Returns(ctx)
			rows = toRows(returns)
		}

		if err != nil {
			log.WithError(err).WithField("screen", string(screen)).Warn("reading cached rows")
			rows = nil
		}
		return resourcelist.RowsLoadedMsg{Screen: screen, Rows: rows}
	}
}

// toRows converts a typed slice into the Row interface slice the list
// renders.
func toRows[T model.Row](items []T) []model.Row {
	rows := make([]model.Row, len(items))
	for i, item := range items {
		rows[i] = item
	}
	return rows
}

// loadInvoiceDetail fetches a full invoice from the backend.
func (m Model) loadInvoiceDetail(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		inv, err := client.GetInvoice(context.Background(), id)
		if err != nil {
			return detailFailedMsg{message: errorMessage(err)}
		}
		return invoicedetail.DetailLoadedMsg{Invoice: inv}
	}
}

// deleteRecord removes a row on the backend.
func (m Model) deleteRecord(screen resourcelist.Screen, id, title string) tea.Cmd {
	client := m.client
	c := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		var err error

		switch screen {
		case resourcelist.ScreenInvoices:
			err = client.DeleteInvoice(ctx, id)
		case resourcelist.ScreenPurchases:
			err = client.DeletePurchase(ctx, id)
		case resourcelist.ScreenExpenses:
			err = client.DeleteExpense(ctx, id)
		case resourcelist.ScreenSuppliers:
			err = client.DeleteSupplier(ctx, id)
		case resourcelist.ScreenReturns:
			err = deleteReturn(ctx, client, c, id)
		}

		return recordDeletedMsg{screen: screen, title: title, err: err}
	}
}

// deleteReturn resolves the return's direction from the cached snapshot
// before deleting, since sales and purchase returns live on different
// endpoints.
func deleteReturn(ctx context.Context, client *api.Client, c *cache.Cache, id string) error {
	returns, err := c.Returns(ctx)
	if err != nil {
		return err
	}
	for _, r := range returns {
		if r.ID == id {
			return client.DeleteReturn(ctx, r.Kind, id)
		}
	}
	return errors.New("return not found in local snapshot")
}

// createSupplier registers a supplier on the backend.
func (m Model) createSupplier(s model.Supplier) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.CreateSupplier(context.Background(), s)
		return recordCreatedMsg{label: "Supplier", err: err}
	}
}

// createExpense records an expense on the backend.
func (m Model) createExpense(e model.Expense) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.CreateExpense(context.Background(), e)
		return recordCreatedMsg{label: "Expense", err: err}
	}
}

// exportInvoice writes a plain-text copy of the invoice to disk.
func (m Model) exportInvoice(inv *model.Invoice) tea.Cmd {
	dir := m.exportDir
	currency := m.cfg.Display.Currency
	return func() tea.Msg {
		path, err := export.WriteInvoice(dir, inv, currency)
		return exportDoneMsg{path: path, err: err}
	}
}

// clearCache wipes the local snapshots after logout.
func (m Model) clearCache() tea.Cmd {
	c := m.cache
	log := m.log
	return func() tea.Msg {
		if err := c.Clear(context.Background()); err != nil {
			log.WithError(err).Warn("clearing cache on logout")
		}
		return nil
	}
}

// errorMessage extracts a displayable message from a backend error.
func errorMessage(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return "Something went wrong"
}
