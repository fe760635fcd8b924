// Package supplierform is the create form for suppliers.
package supplierform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/theme"
)

// CreatedMsg is dispatched when the form is submitted.
type CreatedMsg struct {
	Supplier model.Supplier
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name    string
	email   string
	phone   string
	address string
	taxID   string
}

// Model is the Bubble Tea model for the supplier create form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new supplier form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with empty fields.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the supplier form.
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

// View renders the supplier form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Supplier") + "\n" + m.form.View()

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
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Supplier trading name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Email").
				Placeholder("contact@supplier.com (optional)").
				Value(&m.fb.email).
				Validate(validateOptionalEmail),
			huh.NewInput().
				Title("Phone").
				Placeholder("Optional").
				Value(&m.fb.phone),
			huh.NewText().
				Title("Address").
				Placeholder("Optional").
				Value(&m.fb.address),
			huh.NewInput().
				Title("Tax ID").
				Placeholder("Optional").
				Value(&m.fb.taxID),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	supplier := model.Supplier{
		Name:    strings.TrimSpace(m.fb.name),
		Email:   strings.TrimSpace(m.fb.email),
		Phone:   strings.TrimSpace(m.fb.phone),
		Address: strings.TrimSpace(m.fb.address),
		TaxID:   strings.TrimSpace(m.fb.taxID),
	}
	return func() tea.Msg { return CreatedMsg{Supplier: supplier} }
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

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "@") {
		return errors.New("Enter a valid email address")
	}
	return nil
}
