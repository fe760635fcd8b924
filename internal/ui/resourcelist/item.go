package resourcelist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerline/tally/internal/model"
	"github.com/ledgerline/tally/internal/theme"
)

// rowItem wraps a model.Row so it can be used in a bubbles/list.
type rowItem struct {
	row model.Row
}

// FilterValue returns the string used for fuzzy filtering.
func (i rowItem) FilterValue() string {
	return i.row.RowTitle() + " " + i.row.RowSubtitle()
}

// rowDelegate implements list.ItemDelegate for rendering rows.
type rowDelegate struct {
	// currency is the symbol prefixed to amounts.
	currency string

	// stale is shared by reference with the Model so the delegate sees
	// refresh failures without rebuilding the list.
	stale *bool
}

// Height returns the number of lines each item takes.
func (d rowDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d rowDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row line.
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	row := it.row
	isSelected := index == m.Index()

	statusBadge := ""
	if s := row.RowStatus(); s != "" {
		statusBadge = theme.StatusStyle(s).Render(s) + " "
	}

	subtitle := ""
	if s := row.RowSubtitle(); s != "" {
		subtitle = theme.DimmedStyle.Render("  " + s)
	}

	amount := ""
	if !row.RowAmount().IsZero() {
		amount = theme.AmountStyle.Render("  " + d.currency + row.RowAmount().StringFixed(2))
	}

	staleIndicator := ""
	if d.stale != nil && *d.stale {
		staleIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(" ⚠")
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + relativeTime(row.RowUpdatedAt()))

	line := fmt.Sprintf(
		"%s%s%s%s%s%s",
		statusBadge, row.RowTitle(), subtitle, amount, staleIndicator, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}

// matchesQuery does the client-side search over already-fetched rows.
func matchesQuery(row model.Row, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(row.RowTitle()), q) ||
		strings.Contains(strings.ToLower(row.RowSubtitle()), q) ||
		strings.Contains(strings.ToLower(row.RowStatus()), q)
}
