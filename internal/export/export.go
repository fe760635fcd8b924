// Package export writes plain-text renditions of invoices to disk so
// they can be printed or attached to an email.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledgerline/tally/internal/model"
)

// InvoiceText renders an invoice as a fixed-width text document.
func InvoiceText(inv *model.Invoice, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "INVOICE %s\n", inv.Number)
	fmt.Fprintf(&b, "Status: %s\n", inv.Status)
	fmt.Fprintf(&b, "Customer: %s\n", inv.CustomerName)
	if inv.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", inv.CustomerEmail)
	}
	if !inv.IssuedAt.IsZero() {
		fmt.Fprintf(&b, "Issued: %s\n", inv.IssuedAt.Format("2006-01-02"))
	}
	if !inv.DueAt.IsZero() {
		fmt.Fprintf(&b, "Due: %s\n", inv.DueAt.Format("2006-01-02"))
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 64))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-32s %8s %10s %10s\n", "Item", "Qty", "Rate", "Amount")
	b.WriteString(strings.Repeat("-", 64))
	b.WriteString("\n")

	for _, item := range inv.Items {
		name := item.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		fmt.Fprintf(&b, "%-32s %8s %10s %10s\n",
			name,
			item.Quantity.String(),
			currency+item.Rate.StringFixed(2),
			currency+item.Amount.StringFixed(2),
		)
	}

	b.WriteString(strings.Repeat("-", 64))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%52s %10s\n", "Subtotal:", currency+inv.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%52s %10s\n", "Tax:", currency+inv.TaxTotal.StringFixed(2))
	fmt.Fprintf(&b, "%52s %10s\n", "Total:", currency+inv.Total.StringFixed(2))
	fmt.Fprintf(&b, "%52s %10s\n", "Paid:", currency+inv.AmountPaid.StringFixed(2))
	fmt.Fprintf(&b, "%52s %10s\n", "Balance:", currency+inv.Balance().StringFixed(2))

	return b.String()
}

// WriteInvoice writes the invoice's text rendition into dir, creating
// the directory if needed, and returns the written path. File names are
// timestamped so repeated exports never clobber each other.
func WriteInvoice(dir string, inv *model.Invoice, currency string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("invoice-%s-%s.txt",
		sanitizeName(inv.Number),
		time.Now().Format("20060102-150405"),
	)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(InvoiceText(inv, currency)), 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

// sanitizeName strips path separators and spaces from an invoice number
// so it is safe to embed in a file name.
func sanitizeName(s string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-", "..", "-")
	cleaned := replacer.Replace(s)
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
