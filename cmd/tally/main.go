// Command tally is a terminal client for a small-business billing
// backend: invoices, purchases, expenses, suppliers, and returns.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/app"
	"github.com/ledgerline/tally/internal/cache"
	"github.com/ledgerline/tally/internal/config"
	"github.com/ledgerline/tally/internal/credential"
	"github.com/ledgerline/tally/internal/logging"
	"github.com/ledgerline/tally/internal/session"
	appsync "github.com/ledgerline/tally/internal/sync"
	"github.com/ledgerline/tally/internal/toast"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	log, err := logging.New(filepath.Join(dataDir, "tally.log"), cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := cache.New(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	creds := credential.NewStore()
	sess := session.NewManager(creds, nil, log)
	client := api.NewClient(cfg.API.BaseURL, sess)
	sess.SetAuthenticator(client)

	interval := time.Duration(cfg.API.RefreshIntervalSec) * time.Second
	refresher := appsync.New(client, db, interval, log)
	defer refresher.Stop()

	deps := app.Deps{
		Config:    cfg,
		Session:   sess,
		Client:    client,
		Cache:     db,
		Refresher: refresher,
		Toasts:    toast.NewCenter(),
		ExportDir: filepath.Join(dataDir, "exports"),
		Log:       log,
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
