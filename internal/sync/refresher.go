// Package sync keeps the local snapshot cache in step with the backend
// by refetching list resources on an interval and on demand.
package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/cache"
)

// RefreshState represents the state of a resource refresh.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// RefreshStatus holds the refresh state for a single resource.
type RefreshStatus struct {
	Resource    string
	State       RefreshState
	LastRefresh time.Time
	Error       error
}

// RefreshResultMsg is a tea.Msg sent when a resource refresh completes.
// Unauthorized is set when the backend rejected the session; the app
// layer reacts by invalidating the session and redirecting to login.
type RefreshResultMsg struct {
	Resource     string
	Error        error
	Unauthorized bool
}

// fetchTimeout is the maximum time allowed for one resource refresh.
const fetchTimeout = 30 * time.Second

// fetcher pairs a resource name with its fetch-and-cache operation.
type fetcher struct {
	resource string
	refresh  func(ctx context.Context) error
}

// Refresher orchestrates background refreshes of every list resource
// against a single backend.
type Refresher struct {
	fetchers []fetcher
	log      logrus.FieldLogger
	interval time.Duration

	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu       gosync.Mutex
	statuses map[string]*RefreshStatus
	running  bool
	paused   bool
}

// New creates a Refresher moving data from the API client into the
// snapshot cache.
func New(client *api.Client, c *cache.Cache, interval time.Duration, log logrus.FieldLogger) *Refresher {
	r := &Refresher{
		log:       log,
		interval:  interval,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		statuses:  make(map[string]*RefreshStatus),
	}

	r.fetchers = []fetcher{
		{cache.ResourceInvoices, func(ctx context.Context) error {
			rows, err := client.ListInvoices(ctx)
			if err != nil {
				return err
			}
			return c.ReplaceInvoices(ctx, rows)
		}},
		{cache.ResourcePurchases, func(ctx context.Context) error {
			rows, err := client.ListPurchases(ctx)
			if err != nil {
				return err
			}
			return c.ReplacePurchases(ctx, rows)
		}},
		{cache.ResourceExpenses, func(ctx context.Context) error {
			rows, err := client.ListExpenses(ctx)
			if err != nil {
				return err
			}
			return c.ReplaceExpenses(ctx, rows)
		}},
		{cache.ResourceSuppliers, func(ctx context.Context) error {
			rows, err := client.ListSuppliers(ctx)
			if err != nil {
				return err
			}
			return c.ReplaceSuppliers(ctx, rows)
		}},
		{cache.ResourceReturns, func(ctx context.Context) error {
			rows, err := client.ListReturns(ctx)
			if err != nil {
				return err
			}
			return c.ReplaceReturns(ctx, rows)
		}},
	}

	for _, f := range r.fetchers {
		r.statuses[f.resource] = &RefreshStatus{Resource: f.resource}
	}

	return r
}

// Start launches the refresh goroutine and returns a tea.Cmd that waits
// for the first result. Calling Start on a running refresher returns
// only the subscription command.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	alreadyRunning := r.running
	r.running = true
	r.mu.Unlock()

	if !alreadyRunning {
		go r.run()
	}
	return r.waitForResult()
}

// Stop halts the refresh goroutine.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// Pause suspends refreshing while no session is authenticated.
func (r *Refresher) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
}

// Resume re-enables refreshing and triggers an immediate pass.
func (r *Refresher) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
	r.RefreshNow()
}

// RefreshNow triggers an immediate refresh of all resources.
func (r *Refresher) RefreshNow() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
}

// Statuses returns the current refresh status of every resource.
func (r *Refresher) Statuses() []RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RefreshStatus, 0, len(r.statuses))
	for _, f := range r.fetchers {
		out = append(out, *r.statuses[f.resource])
	}
	return out
}

// run is the refresh loop.
func (r *Refresher) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshAll()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refreshAll()
		case <-r.triggerCh:
			r.refreshAll()
		}
	}
}

// refreshAll refreshes every resource sequentially. One backend serves
// all resources, so there is nothing to gain from fetching in parallel
// and sequencing keeps cache writes ordered.
func (r *Refresher) refreshAll() {
	r.mu.Lock()
	paused := r.paused
	r.mu.Unlock()
	if paused {
		return
	}

	for _, f := range r.fetchers {
		r.refreshOne(f)
	}
}

// refreshOne runs a single resource refresh and reports the result.
func (r *Refresher) refreshOne(f fetcher) {
	r.setStatus(f.resource, RefreshRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	err := f.refresh(ctx)
	if err != nil {
		r.setStatus(f.resource, RefreshError, err)
		r.log.WithError(err).WithField("resource", f.resource).Warn("refresh failed")

		var reqErr *api.RequestError
		unauthorized := errors.As(err, &reqErr) && reqErr.Unauthorized()
		r.sendResult(RefreshResultMsg{
			Resource:     f.resource,
			Error:        err,
			Unauthorized: unauthorized,
		})
		return
	}

	r.setStatus(f.resource, RefreshIdle, nil)
	r.sendResult(RefreshResultMsg{Resource: f.resource})
}

// setStatus updates the refresh status for a resource.
func (r *Refresher) setStatus(resource string, state RefreshState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.statuses[resource]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == RefreshIdle && err == nil {
		status.LastRefresh = time.Now()
	}
}

// sendResult sends a result message without blocking.
func (r *Refresher) sendResult(msg RefreshResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the loop.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result.
func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult re-arms the result subscription. Call it after
// processing each RefreshResultMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}
