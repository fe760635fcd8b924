// Package invoicedetail is the full-screen invoice view: header fields,
// line items, and totals in a scrollable viewport.
package invoicedetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/tally/internal/keys"
	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries a freshly fetched invoice.
type DetailLoadedMsg struct {
	Invoice *model.Invoice
}

// ExportRequestMsg asks the app to export the shown invoice to a file.
type ExportRequestMsg struct {
	Invoice *model.Invoice
}

// Model is the invoice detail view component.
type Model struct {
	invoice  *model.Invoice
	viewport viewport.Model
	currency string
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new invoice detail view.
func New(k *keys.KeyMap, currency string, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		currency: currency,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetLoading sets the loading state, shown while the fetch is in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.invoice = nil
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.invoice = msg.Invoice
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Export):
			if m.invoice != nil {
				inv := m.invoice
				return m, func() tea.Msg {
					return ExportRequestMsg{Invoice: inv}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading invoice...")
	}

	if m.invoice == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No invoice selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.invoice == nil {
		return ""
	}

	inv := m.invoice
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render("Invoice "+inv.Number))

	statusBadge := theme.StatusStyle(inv.Status).Render(inv.Status)
	sections = append(sections, statusBadge)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Customer:"),
		valStyle.Render(inv.CustomerName),
	))
	if inv.CustomerEmail != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Email:"),
			valStyle.Render(inv.CustomerEmail),
		))
	}
	if !inv.IssuedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Issued:"),
			valStyle.Render(inv.IssuedAt.Format("2006-01-02")),
		))
	}
	if !inv.DueAt.IsZero() {
		due := valStyle.Render(inv.DueAt.Format("2006-01-02"))
		if inv.Status == model.InvoiceStatusOverdue {
			due = theme.OverdueStyle.Render(inv.DueAt.Format("2006-01-02") + " (overdue)")
		}
		sections = append(sections, fmt.Sprintf(
			"%s       %s",
			metaStyle.Render("Due:"),
			due,
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	itemHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sections = append(sections, itemHeaderStyle.Render(
		fmt.Sprintf("Items (%d)", len(inv.Items)),
	))
	sections = append(sections, "")

	for _, item := range inv.Items {
		line := fmt.Sprintf(
			"%s  %s × %s%s",
			valStyle.Render(item.Name),
			metaStyle.Render(item.Quantity.String()),
			metaStyle.Render(m.currency),
			metaStyle.Render(item.Rate.StringFixed(2)),
		)
		amount := theme.AmountStyle.Render(m.currency + item.Amount.StringFixed(2))
		sections = append(sections, line+"  "+amount)
	}

	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	sections = append(sections, m.totalLine("Subtotal", inv.Subtotal, metaStyle))
	sections = append(sections, m.totalLine("Tax", inv.TaxTotal, metaStyle))
	sections = append(sections, m.totalLine("Total", inv.Total, theme.AmountStyle))
	sections = append(sections, m.totalLine("Paid", inv.AmountPaid, metaStyle))

	balanceStyle := theme.AmountStyle
	if inv.Balance().IsPositive() && inv.Status == model.InvoiceStatusOverdue {
		balanceStyle = theme.OverdueStyle
	}
	sections = append(sections, m.totalLine("Balance", inv.Balance(), balanceStyle))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// totalLine formats one row of the totals block.
func (m Model) totalLine(label string, amount decimal.Decimal, style lipgloss.Style) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	return labelStyle.Render(label+":") + style.Render(m.currency+amount.StringFixed(2))
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
