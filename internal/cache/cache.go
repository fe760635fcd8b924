// Package cache keeps the last successfully fetched copy of each list
// resource in a local SQLite database, so lists render immediately on
// startup and survive an unreachable backend. It is written only by the
// background refresher; pages read it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ledgerline/tally/internal/model"
)

// Resource names keying the snapshot table.
const (
	ResourceInvoices  = "invoices"
	ResourcePurchases = "purchases"
	ResourceExpenses  = "expenses"
	ResourceSuppliers = "suppliers"
	ResourceReturns   = "returns"
)

// Cache is a SQLite-backed snapshot store.
type Cache struct {
	db *sqlx.DB
}

// New opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func New(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// replace swaps the stored snapshot for a resource with the given rows,
// preserving their order.
func (c *Cache) replace(ctx context.Context, resource string, ids []string, payloads [][]byte) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE resource = ?", resource); err != nil {
		return fmt.Errorf("clearing %s snapshot: %w", resource, err)
	}

	now := time.Now().UTC()
	for i, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (resource, id, pos, payload, fetched_at)
			 VALUES (?, ?, ?, ?, ?)`,
			resource, id, i, string(payloads[i]), now,
		)
		if err != nil {
			return fmt.Errorf("inserting %s row %s: %w", resource, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s snapshot: %w", resource, err)
	}
	return nil
}

// payloads returns the stored snapshot rows for a resource in order.
func (c *Cache) payloads(ctx context.Context, resource string) ([]string, error) {
	var out []string
	err := c.db.SelectContext(ctx, &out,
		"SELECT payload FROM snapshots WHERE resource = ? ORDER BY pos", resource)
	if err != nil {
		return nil, fmt.Errorf("reading %s snapshot: %w", resource, err)
	}
	return out, nil
}

// replaceAs marshals typed rows and stores them under resource.
func replaceAs[T any](ctx context.Context, c *Cache, resource string, rows []T, id func(T) string) error {
	ids := make([]string, len(rows))
	payloads := make([][]byte, len(rows))
	for i, r := range rows {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling %s row: %w", resource, err)
		}
		ids[i] = id(r)
		payloads[i] = raw
	}
	return c.replace(ctx, resource, ids, payloads)
}

// readAs unmarshals the stored snapshot rows for resource.
func readAs[T any](ctx context.Context, c *Cache, resource string) ([]T, error) {
	raws, err := c.payloads(ctx, resource)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var row T
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("unmarshaling %s row: %w", resource, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ReplaceInvoices stores a fresh invoice snapshot.
func (c *Cache) ReplaceInvoices(ctx context.Context, rows []model.Invoice) error {
	return replaceAs(ctx, c, ResourceInvoices, rows, func(r model.Invoice) string { return r.ID })
}

// Invoices returns the cached invoice snapshot.
func (c *Cache) Invoices(ctx context.Context) ([]model.Invoice, error) {
	return readAs[model.Invoice](ctx, c, ResourceInvoices)
}

// ReplacePurchases stores a fresh purchase snapshot.
func (c *Cache) ReplacePurchases(ctx context.Context, rows []model.Purchase) error {
	return replaceAs(ctx, c, ResourcePurchases, rows, func(r model.Purchase) string { return r.ID })
}

// Purchases returns the cached purchase snapshot.
func (c *Cache) Purchases(ctx context.Context) ([]model.Purchase, error) {
	return readAs[model.Purchase](ctx, c, ResourcePurchases)
}

// ReplaceExpenses stores a fresh expense snapshot.
func (c *Cache) ReplaceExpenses(ctx context.Context, rows []model.Expense) error {
	return replaceAs(ctx, c, ResourceExpenses, rows, func(r model.Expense) string { return r.ID })
}

// Expenses returns the cached expense snapshot.
func (c *Cache) Expenses(ctx context.Context) ([]model.Expense, error) {
	return readAs[model.Expense](ctx, c, ResourceExpenses)
}

// ReplaceSuppliers stores a fresh supplier snapshot.
func (c *Cache) ReplaceSuppliers(ctx context.Context, rows []model.Supplier) error {
	return replaceAs(ctx, c, ResourceSuppliers, rows, func(r model.Supplier) string { return r.ID })
}

// Suppliers returns the cached supplier snapshot.
func (c *Cache) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return readAs[model.Supplier](ctx, c, ResourceSuppliers)
}

// ReplaceReturns stores a fresh returns snapshot.
func (c *Cache) ReplaceReturns(ctx context.Context, rows []model.Return) error {
	return replaceAs(ctx, c, ResourceReturns, rows, func(r model.Return) string { return r.ID })
}

// Returns returns the cached returns snapshot.
func (c *Cache) Returns(ctx context.Context) ([]model.Return, error) {
	return readAs[model.Return](ctx, c, ResourceReturns)
}

// Clear wipes every snapshot, used on logout so the next account does
// not see the previous account's data.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	return nil
}
