package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is the common interface for records displayed in the resource list
// view. Every listable domain record implements it so one list component
// can render invoices, purchases, expenses, suppliers, and returns.
type Row interface {
	RowID() string
	RowTitle() string
	RowSubtitle() string
	RowStatus() string
	RowAmount() decimal.Decimal
	RowUpdatedAt() time.Time
}

// Invoice implements Row.

func (i Invoice) RowID() string              { return i.ID }
func (i Invoice) RowTitle() string           { return i.Number }
func (i Invoice) RowSubtitle() string        { return i.CustomerName }
func (i Invoice) RowStatus() string          { return i.Status }
func (i Invoice) RowAmount() decimal.Decimal { return i.Total }
func (i Invoice) RowUpdatedAt() time.Time    { return i.UpdatedAt }

// Purchase implements Row.

func (p Purchase) RowID() string              { return p.ID }
func (p Purchase) RowTitle() string           { return p.Number }
func (p Purchase) RowSubtitle() string        { return p.SupplierName }
func (p Purchase) RowStatus() string          { return p.Status }
func (p Purchase) RowAmount() decimal.Decimal { return p.Total }
func (p Purchase) RowUpdatedAt() time.Time    { return p.UpdatedAt }

// Expense implements Row.

func (e Expense) RowID() string              { return e.ID }
func (e Expense) RowTitle() string           { return e.Category }
func (e Expense) RowSubtitle() string        { return e.Description }
func (e Expense) RowStatus() string          { return "" }
func (e Expense) RowAmount() decimal.Decimal { return e.Amount }
func (e Expense) RowUpdatedAt() time.Time    { return e.UpdatedAt }

// Supplier implements Row.

func (s Supplier) RowID() string              { return s.ID }
func (s Supplier) RowTitle() string           { return s.Name }
func (s Supplier) RowSubtitle() string        { return s.Email }
func (s Supplier) RowStatus() string          { return "" }
func (s Supplier) RowAmount() decimal.Decimal { return decimal.Zero }
func (s Supplier) RowUpdatedAt() time.Time    { return s.UpdatedAt }

// Return implements Row.

func (r Return) RowID() string              { return r.ID }
func (r Return) RowTitle() string           { return r.DocumentNumber }
func (r Return) RowSubtitle() string        { return r.Party }
func (r Return) RowStatus() string          { return string(r.Kind) }
func (r Return) RowAmount() decimal.Decimal { return r.Amount }
func (r Return) RowUpdatedAt() time.Time    { return r.UpdatedAt }
