package api

import (
	"context"

	"github.com/ledgerline/tally/internal/model"
)

// Typed wrappers over the generic helper, one set per backend resource.
// Response shapes are opaque JSON contracts owned by the backend.

// ListInvoices fetches all invoices, newest first.
func (c *Client) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	if err := c.Get(ctx, "/api/invoices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInvoice fetches a single invoice with its line items.
func (c *Client) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	var out model.Invoice
	if err := c.Get(ctx, "/api/invoices/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/invoices/"+id)
}

// ListPurchases fetches all purchases.
func (c *Client) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	var out []model.Purchase
	if err := c.Get(ctx, "/api/purchases", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePurchase removes a purchase.
func (c *Client) DeletePurchase(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/purchases/"+id)
}

// ListExpenses fetches all expenses.
func (c *Client) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	var out []model.Expense
	if err := c.Get(ctx, "/api/expenses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExpense records a new expense and returns the stored record.
func (c *Client) CreateExpense(ctx context.Context, e model.Expense) (*model.Expense, error) {
	var out model.Expense
	if err := c.Post(ctx, "/api/expenses", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/expenses/"+id)
}

// ListSuppliers fetches all suppliers.
func (c *Client) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	if err := c.Get(ctx, "/api/suppliers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSupplier registers a new supplier and returns the stored record.
func (c *Client) CreateSupplier(ctx context.Context, s model.Supplier) (*model.Supplier, error) {
	var out model.Supplier
	if err := c.Post(ctx, "/api/suppliers", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSupplier removes a supplier.
func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/suppliers/"+id)
}

// ListReturns fetches sales and purchase returns merged into one slice,
// sales first, preserving backend order within each kind.
func (c *Client) ListReturns(ctx context.Context) ([]model.Return, error) {
	var sales, purchases []model.Return
	if err := c.Get(ctx, "/api/sales-returns", &sales); err != nil {
		return nil, err
	}
	if err := c.Get(ctx, "/api/purchase-returns", &purchases); err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Kind = model.ReturnKindSales
	}
	for i := range purchases {
		purchases[i].Kind = model.ReturnKindPurchase
	}
	return append(sales, purchases...), nil
}

// DeleteReturn removes a return of the given kind.
func (c *Client) DeleteReturn(ctx context.Context, kind model.ReturnKind, id string) error {
	if kind == model.ReturnKindPurchase {
		return c.Delete(ctx, "/api/purchase-returns/"+id)
	}
	return c.Delete(ctx, "/api/sales-returns/"+id)
}
