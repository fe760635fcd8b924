// Package login is the unauthenticated entry view: a sign-in form that
// can be switched to account registration.
package login

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/tally/internal/theme"
)

// SubmitLoginMsg asks the app to authenticate with these credentials.
type SubmitLoginMsg struct {
	Email    string
	Password string
}

// SubmitSignupMsg asks the app to register a new account.
type SubmitSignupMsg struct {
	Name     string
	Email    string
	Password string
}

// mode selects which form is shown.
type mode int

const (
	modeLogin mode = iota
	modeSignup
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
}

// Model is the Bubble Tea model for the login/signup view.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    mode
	pending bool
	errMsg  string
	width   int
	height  int
}

// New creates the login view.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the sign-in form and returns its init command.
func (m *Model) Start() tea.Cmd {
	m.mode = modeLogin
	m.pending = false
	m.errMsg = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetPending blocks resubmission while an auth request is in flight.
func (m *Model) SetPending(pending bool) {
	m.pending = pending
}

// SetError shows a failure message and re-arms the form for another
// attempt with the previous inputs preserved.
func (m *Model) SetError(message string) tea.Cmd {
	m.pending = false
	m.errMsg = message
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+s" && !m.pending {
		// Toggle between sign in and sign up.
		if m.mode == modeLogin {
			m.mode = modeSignup
		} else {
			m.mode = modeLogin
		}
		m.errMsg = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.pending = true
		m.errMsg = ""
		return m, m.submit()
	}

	return m, cmd
}

// submit emits the message matching the active mode.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	if m.mode == modeSignup {
		return func() tea.Msg {
			return SubmitSignupMsg{Name: fb.name, Email: fb.email, Password: fb.password}
		}
	}
	return func() tea.Msg {
		return SubmitLoginMsg{Email: fb.email, Password: fb.password}
	}
}

// View renders the login view.
func (m Model) View() string {
	titleText := "Sign in to Tally"
	hint := "ctrl+s create an account"
	if m.mode == modeSignup {
		titleText = "Create your account"
		hint = "ctrl+s back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var sections []string
	sections = append(sections, titleStyle.Render(titleText))

	if m.errMsg != "" {
		sections = append(sections, theme.OverdueStyle.Render(m.errMsg))
	}

	if m.pending {
		sections = append(sections, theme.DimmedStyle.Render("Signing in..."))
	} else if m.form != nil {
		sections = append(sections, m.form.View())
	}

	sections = append(sections, theme.HelpStyle.Render(hint))

	content := strings.Join(sections, "\n")
	panel := theme.DetailPanelStyle.Width(min(m.width-4, 60)).Render(content)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		panel,
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field

	if m.mode == modeSignup {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Placeholder("Your name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Placeholder("you@business.com").
			Value(&m.fb.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(min(m.width-8, 56)).
		WithShowHelp(false)
}

// validateRequired rejects empty input for the named field.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// validateEmail does a minimal shape check; the backend is the real
// validator.
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email is required")
	}
	if !strings.Contains(s, "@") {
		return errors.New("Enter a valid email address")
	}
	return nil
}
