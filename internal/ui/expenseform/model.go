// Package expenseform is the create form for expenses.
package expenseform

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/theme"
)

// CreatedMsg is dispatched when the form is submitted.
type CreatedMsg struct {
	Expense model.Expense
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// expenseCategories are the selectable reporting buckets.
var expenseCategories = []string{
	"rent",
	"utilities",
	"salaries",
	"transport",
	"services",
	"other",
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	category    string
	description string
	amount      string
	incurredAt  string
}

// Model is the Bubble Tea model for the expense create form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new expense form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{category: "other"},
		width:  width,
		height: height,
	}
}

// Start initializes the form, defaulting the date to today.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{
		category:   "other",
		incurredAt: time.Now().Format("2006-01-02"),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the expense form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the expense form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Expense") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	categoryOpts := make([]huh.Option[string], len(expenseCategories))
	for i, c := range expenseCategories {
		categoryOpts[i] = huh.NewOption(c, c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&m.fb.category),
			huh.NewInput().
				Title("Description").
				Placeholder("What was this for?").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fb.amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.incurredAt).
				Validate(validateDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	amount, err := decimal.NewFromString(strings.TrimSpace(m.fb.amount))
	if err != nil {
		// Validate already rejected malformed input; treat as zero.
		amount = decimal.Zero
	}

	incurredAt, err := time.Parse("2006-01-02", strings.TrimSpace(m.fb.incurredAt))
	if err != nil {
		incurredAt = time.Now()
	}

	expense := model.Expense{
		Category:    m.fb.category,
		Description: strings.TrimSpace(m.fb.description),
		Amount:      amount,
		IncurredAt:  incurredAt,
	}
	return func() tea.Msg { return CreatedMsg{Expense: expense} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(fieldName + " is required")
		}
		return nil
	}
}

func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("Enter a number like 120.50")
	}
	if d.IsNegative() {
		return errors.New("Amount cannot be negative")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("Use YYYY-MM-DD")
	}
	return nil
}
