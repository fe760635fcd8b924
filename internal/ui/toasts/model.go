// Package toasts renders the notification center's queue as a stack of
// bordered boxes with countdown bars, and drives the sampling tick that
// animates them.
package toasts

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/tally/internal/theme"
	"github.com/ledgerline/tally/internal/toast"
)

// sampleInterval is how often countdowns are re-rendered. Presence and
// remaining time are functions of the clock, not of this interval; the
// tick only controls animation smoothness.
const sampleInterval = 50 * time.Millisecond

// maxWidth caps the toast box width.
const maxWidth = 44

// TickMsg advances the countdown animation.
type TickMsg time.Time

// Model renders the toast stack for a notification center.
type Model struct {
	center  *toast.Center
	width   int
	ticking bool
}

// New creates the overlay for the given center.
func New(center *toast.Center, width int) Model {
	return Model{center: center, width: width}
}

// SetWidth updates the available terminal width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Activate starts the sampling tick if any timed toast is live. The app
// calls it after every post so a freshly posted toast animates at once.
func (m *Model) Activate() tea.Cmd {
	if m.ticking || !m.center.HasTimed() {
		return nil
	}
	m.ticking = true
	return tick()
}

// Update handles tick messages, re-arming while timed toasts remain.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); !ok {
		return m, nil
	}

	if m.center.HasTimed() {
		return m, tick()
	}
	m.ticking = false
	return m, nil
}

// tick schedules the next animation sample.
func tick() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// View renders the live toasts oldest-first, newest at the bottom.
func (m Model) View() string {
	live := m.center.Active()
	if len(live) == 0 {
		return ""
	}

	now := m.center.Now()
	width := maxWidth
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	if width < 10 {
		width = 10
	}

	boxes := make([]string, 0, len(live))
	for _, n := range live {
		boxes = append(boxes, renderToast(n, now, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

// renderToast draws one toast box with its countdown bar.
func renderToast(n toast.Notification, now time.Time, width int) string {
	inner := width - 4 // border and padding

	message := lipgloss.NewStyle().Width(inner).Render(n.Message)

	var body string
	if n.Sticky() {
		body = message
	} else {
		filled := int(n.Ratio(now) * float64(inner))
		if filled > inner {
			filled = inner
		}
		bar := theme.ToastProgressStyle(string(n.Kind)).
			Render(strings.Repeat("─", filled))
		body = lipgloss.JoinVertical(lipgloss.Left, message, bar)
	}

	return theme.ToastStyle(string(n.Kind)).Width(inner + 2).Render(body)
}
