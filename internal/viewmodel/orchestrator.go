// Package viewmodel coordinates the fetch-and-derive pipeline that turns
// synced records into UI-ready view state. The orchestrator is the only
// writer of the view state record; supersession of stale in-flight requests
// is handled with a generation token.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerview/ledgerview/internal/budget"
	"github.com/ledgerview/ledgerview/internal/filter"
	"github.com/ledgerview/ledgerview/internal/gateway"
	"github.com/ledgerview/ledgerview/internal/ledger"
	"github.com/ledgerview/ledgerview/internal/model"
)

// ErrSuperseded reports that a refresh resolved after a newer request had
// been issued; its result was discarded, never applied to view state.
var ErrSuperseded = errors.New("refresh superseded by newer request")

// Phase is the orchestrator's cycle state.
type Phase string

// Refresh cycle phases. A cycle always returns to Idle, on success or
// failure alike.
const (
	PhaseIdle     Phase = "idle"
	PhaseFetching Phase = "fetching"
)

// ViewState is the single derived view record. It is replaced wholesale by
// the result of the most recently issued refresh; subscribers receive
// snapshots and must not mutate the slices.
type ViewState struct {
	Accounts     []model.Account
	Transactions []model.Transaction
	Groups       []model.DateGroup
	Summary      model.PeriodSummary // backend summary for the reporting period
	RangeSummary model.PeriodSummary // local reduction over the filtered set
	Budgets      []model.BudgetStatus
	Insights     []model.Insight
	Criteria     filter.Criteria
	Query        gateway.TransactionQuery
	Phase        Phase
	Err          error
	LastUpdated  time.Time
}

// Orchestrator runs sync-then-reload sequences and replays the derivation
// pipeline whenever filter criteria change.
type Orchestrator struct {
	gw            gateway.Gateway
	filters       *filter.Engine
	logger        *slog.Logger
	summaryPeriod gateway.SummaryPeriod

	mu          sync.Mutex
	state       ViewState
	latest      uint64
	lastQuery   gateway.TransactionQuery
	lastIssued  bool
	lastFailed  bool
	subscribers []func(ViewState)
}

// Config holds orchestrator options.
type Config struct {
	// SummaryPeriod is the reporting window for the backend summary cards.
	SummaryPeriod gateway.SummaryPeriod
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{SummaryPeriod: gateway.SummaryMonth}
}

// New creates an orchestrator over the given gateway and filter engine.
func New(gw gateway.Gateway, filters *filter.Engine) *Orchestrator {
	return NewWithConfig(gw, filters, DefaultConfig())
}

// NewWithConfig creates an orchestrator with custom configuration.
func NewWithConfig(gw gateway.Gateway, filters *filter.Engine, cfg Config) *Orchestrator {
	period := cfg.SummaryPeriod
	if period == "" {
		period = gateway.SummaryMonth
	}
	return &Orchestrator{
		gw:            gw,
		filters:       filters,
		summaryPeriod: period,
		logger:        slog.Default().With("component", "viewmodel"),
		state:         ViewState{Phase: PhaseIdle},
	}
}

// State returns a snapshot of the current view state.
func (o *Orchestrator) State() ViewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers an observer for every applied state change.
// Observers receive a snapshot and are invoked with the orchestrator's lock
// held; they must not call back into the orchestrator.
func (o *Orchestrator) Subscribe(fn func(ViewState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers = append(o.subscribers, fn)
}

// Refresh re-runs the fetch-and-derive pipeline for the given criteria.
//
// Identical consecutive criteria are idempotent: if the resolved query
// equals the last successfully issued one, no duplicate fetch happens. When
// a newer Refresh is issued while this one is in flight, this one's result
// is discarded and ErrSuperseded is returned (last-request-wins).
func (o *Orchestrator) Refresh(ctx context.Context, criteria filter.Criteria) error {
	query, err := o.filters.Apply(criteria)
	if err != nil {
		// Validation failures never reach the gateway.
		return err
	}

	o.mu.Lock()
	if o.lastIssued && !o.lastFailed && query == o.lastQuery {
		o.mu.Unlock()
		o.logger.Debug("Criteria unchanged, skipping fetch")
		return nil
	}
	o.latest++
	token := o.latest
	o.lastQuery = query
	o.lastIssued = true
	o.lastFailed = false
	o.state.Phase = PhaseFetching
	o.state.Criteria = criteria
	o.state.Query = query
	o.notifyLocked()
	o.mu.Unlock()

	o.logger.Debug("Issuing refresh",
		"token", token,
		"start_date", query.StartDate.String(),
		"end_date", query.EndDate.String())

	result, err := o.fetch(ctx, query)
	if err != nil {
		return o.fail(token, err)
	}
	return o.apply(token, criteria, query, result)
}

// Sync triggers a remote synchronization, then replays the pipeline for the
// current criteria to bring view state current. The sync trigger is never
// retried automatically.
func (o *Orchestrator) Sync(ctx context.Context) (model.SyncResult, error) {
	result, err := o.gw.SyncTransactions(ctx)
	if err != nil {
		return model.SyncResult{}, err
	}

	o.mu.Lock()
	criteria := o.state.Criteria
	// The remote dataset changed, so the duplicate-fetch suppression must
	// not swallow the reload.
	o.lastIssued = false
	o.mu.Unlock()

	if err := o.Refresh(ctx, criteria); err != nil && !errors.Is(err, ErrSuperseded) {
		return result, fmt.Errorf("sync succeeded but reload failed: %w", err)
	}
	return result, nil
}

// fetchResult carries one cycle's joined gateway responses.
type fetchResult struct {
	transactions []model.Transaction
	accounts     []model.Account
	summary      model.PeriodSummary
	budgets      []model.BudgetStatus
	insights     []model.Insight
}

// fetch issues the view's gateway calls concurrently and joins them. The
// view never renders partial state from this join: all calls succeed or the
// cycle fails as one.
func (o *Orchestrator) fetch(ctx context.Context, query gateway.TransactionQuery) (fetchResult, error) {
	var result fetchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := o.gw.ListTransactions(gctx, query)
		if err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		result.transactions = txns
		return nil
	})
	g.Go(func() error {
		accounts, err := o.gw.ListAccounts(gctx)
		if err != nil {
			return fmt.Errorf("accounts: %w", err)
		}
		result.accounts = accounts
		return nil
	})
	g.Go(func() error {
		summary, err := o.gw.GetSummary(gctx, o.summaryPeriod)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		result.summary = summary
		return nil
	})
	g.Go(func() error {
		budgets, err := o.gw.ListBudgetStatuses(gctx)
		if err != nil {
			return fmt.Errorf("budget statuses: %w", err)
		}
		result.budgets = budgets
		return nil
	})
	g.Go(func() error {
		insights, err := o.gw.ListInsights(gctx)
		if err != nil {
			return fmt.Errorf("insights: %w", err)
		}
		result.insights = insights
		return nil
	})

	if err := g.Wait(); err != nil {
		return fetchResult{}, err
	}
	return result, nil
}

// apply installs a cycle's result as the view state, unless a newer request
// has since been issued.
func (o *Orchestrator) apply(token uint64, criteria filter.Criteria, query gateway.TransactionQuery, result fetchResult) error {
	// Derivations are pure; run them before taking the lock.
	groups := ledger.GroupByDay(result.transactions)
	rangeSummary := ledger.Summarize(result.transactions)
	budgets := recalculateStatuses(result.budgets)

	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.latest {
		o.logger.Debug("Discarding superseded refresh result",
			"token", token, "latest", o.latest)
		return ErrSuperseded
	}

	o.state = ViewState{
		Accounts:     result.accounts,
		Transactions: result.transactions,
		Groups:       groups,
		Summary:      result.summary,
		RangeSummary: rangeSummary,
		Budgets:      budgets,
		Insights:     result.insights,
		Criteria:     criteria,
		Query:        query,
		Phase:        PhaseIdle,
		LastUpdated:  time.Now(),
	}
	o.notifyLocked()
	return nil
}

// fail records a cycle failure. Failed cycles return to Idle with the error
// surfaced; re-invocation is manual, never automatic.
func (o *Orchestrator) fail(token uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.latest {
		o.logger.Debug("Discarding superseded refresh failure",
			"token", token, "latest", o.latest, "error", err)
		return ErrSuperseded
	}

	o.lastFailed = true
	o.state.Phase = PhaseIdle
	o.state.Err = err
	o.notifyLocked()
	return err
}

// recalculateStatuses rederives budget flags locally from each definition
// and its backend-attributed spend, so flag semantics stay consistent with
// the calculator regardless of backend version.
func recalculateStatuses(statuses []model.BudgetStatus) []model.BudgetStatus {
	if statuses == nil {
		return nil
	}
	out := make([]model.BudgetStatus, len(statuses))
	for i, s := range statuses {
		out[i] = budget.Status(s.Budget, s.Spent)
	}
	return out
}

// notifyLocked delivers the current state snapshot to all subscribers.
// Callers must hold o.mu.
func (o *Orchestrator) notifyLocked() {
	state := o.state
	for _, fn := range o.subscribers {
		fn(state)
	}
}
