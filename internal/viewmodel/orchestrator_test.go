package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/filter"
	"github.com/ledgerview/ledgerview/internal/gateway"
	"github.com/ledgerview/ledgerview/internal/model"
)

// fixedClock pins preset resolution to 2024-06-15.
func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func newTestOrchestrator(gw gateway.Gateway) *Orchestrator {
	return New(gw, filter.New(filter.WithClock(fixedClock)))
}

func TestOrchestrator_Refresh(t *testing.T) {
	mock := gateway.NewMock()
	mock.ListTransactionsFn = func(_ context.Context, _ gateway.TransactionQuery) ([]model.Transaction, error) {
		return []model.Transaction{
			{ID: 1, Date: model.NewDate(2024, time.June, 14), Amount: -20, Name: "Lunch"},
			{ID: 2, Date: model.NewDate(2024, time.June, 15), Amount: 500, Name: "Deposit"},
		}, nil
	}
	mock.ListBudgetStatusesFn = func(_ context.Context) ([]model.BudgetStatus, error) {
		return []model.BudgetStatus{
			{Budget: model.Budget{ID: 1, Category: "Food", Amount: 100, Period: model.PeriodMonthly, AlertThreshold: 80}, Spent: 90},
		}, nil
	}

	orch := newTestOrchestrator(mock)
	require.NoError(t, orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days}))

	state := orch.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.NoError(t, state.Err)
	assert.False(t, state.LastUpdated.IsZero())

	// Derivations run on the fetched set.
	require.Len(t, state.Groups, 2)
	assert.Equal(t, "2024-06-15", state.Groups[0].Date.String())
	assert.InDelta(t, 500, state.RangeSummary.TotalIncome, 1e-9)
	assert.InDelta(t, 20, state.RangeSummary.TotalExpenses, 1e-9)

	// Budget flags are rederived locally from the backend spend figure.
	require.Len(t, state.Budgets, 1)
	assert.True(t, state.Budgets[0].IsNearThreshold)
	assert.False(t, state.Budgets[0].IsOverBudget)
	assert.InDelta(t, 10, state.Budgets[0].Remaining, 1e-9)

	// The resolved query reflects the preset anchored to the fixed clock.
	assert.Equal(t, "2024-06-09", state.Query.StartDate.String())
	assert.Equal(t, "2024-06-15", state.Query.EndDate.String())
}

func TestOrchestrator_Refresh_InvalidRangeNeverFetches(t *testing.T) {
	mock := gateway.NewMock()
	orch := newTestOrchestrator(mock)

	criteria := filter.Criteria{}.
		WithStartDate(model.NewDate(2024, time.June, 15)).
		WithEndDate(model.NewDate(2024, time.June, 1))

	err := orch.Refresh(context.Background(), criteria)
	assert.ErrorIs(t, err, common.ErrInvalidDateRange)
	assert.Empty(t, mock.ListTransactionsCalls, "validation failures must not reach the gateway")
}

func TestOrchestrator_Refresh_SkipsDuplicateQuery(t *testing.T) {
	mock := gateway.NewMock()
	orch := newTestOrchestrator(mock)

	criteria := filter.Criteria{Preset: filter.PresetLast30Days}
	require.NoError(t, orch.Refresh(context.Background(), criteria))
	require.NoError(t, orch.Refresh(context.Background(), criteria))

	assert.Len(t, mock.ListTransactionsCalls, 1, "identical consecutive criteria must not refetch")

	// A different range does refetch.
	require.NoError(t, orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days}))
	assert.Len(t, mock.ListTransactionsCalls, 2)
}

func TestOrchestrator_Refresh_FailureAllowsManualRetry(t *testing.T) {
	mock := gateway.NewMock()
	fail := true
	mock.ListTransactionsFn = func(_ context.Context, _ gateway.TransactionQuery) ([]model.Transaction, error) {
		if fail {
			return nil, common.ErrGatewayUnavailable
		}
		return []model.Transaction{}, nil
	}

	orch := newTestOrchestrator(mock)
	criteria := filter.Criteria{Preset: filter.PresetLast30Days}

	err := orch.Refresh(context.Background(), criteria)
	assert.ErrorIs(t, err, common.ErrGatewayUnavailable)

	state := orch.State()
	assert.Equal(t, PhaseIdle, state.Phase, "a failed cycle returns to idle")
	assert.Error(t, state.Err)

	// Same criteria again: the duplicate suppression must not swallow a
	// retry of a failed cycle.
	fail = false
	require.NoError(t, orch.Refresh(context.Background(), criteria))
	assert.Len(t, mock.ListTransactionsCalls, 2)
	assert.NoError(t, orch.State().Err)
}

func TestOrchestrator_Refresh_AllOrNothing(t *testing.T) {
	mock := gateway.NewMock()
	mock.ListTransactionsFn = func(_ context.Context, _ gateway.TransactionQuery) ([]model.Transaction, error) {
		return []model.Transaction{{ID: 1, Date: model.NewDate(2024, time.June, 14), Amount: -5}}, nil
	}
	mock.ListBudgetStatusesFn = func(_ context.Context) ([]model.BudgetStatus, error) {
		return nil, common.ErrGatewayUnavailable
	}

	orch := newTestOrchestrator(mock)
	err := orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days})
	assert.Error(t, err)

	state := orch.State()
	assert.Empty(t, state.Transactions, "partial results must never be applied")
	assert.Empty(t, state.Groups)
}

// TestOrchestrator_Supersession overlaps two refreshes and checks that only
// the newer request's result lands, in both resolution orders.
func TestOrchestrator_Supersession(t *testing.T) {
	makeTxn := func(id int) []model.Transaction {
		return []model.Transaction{{ID: id, Date: model.NewDate(2024, time.June, 14), Amount: -1}}
	}

	tests := []struct {
		name          string
		staleResolves string // "first" or "last"
	}{
		{name: "stale resolves before newer", staleResolves: "first"},
		{name: "stale resolves after newer", staleResolves: "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staleGate := make(chan struct{})
			newerGate := make(chan struct{})

			mock := gateway.NewMock()
			var mu sync.Mutex
			call := 0
			mock.ListTransactionsFn = func(_ context.Context, _ gateway.TransactionQuery) ([]model.Transaction, error) {
				mu.Lock()
				call++
				n := call
				mu.Unlock()
				if n == 1 {
					<-staleGate
					return makeTxn(1), nil
				}
				<-newerGate
				return makeTxn(2), nil
			}

			orch := newTestOrchestrator(mock)

			var wg sync.WaitGroup
			var staleErr, newerErr error
			wg.Add(2)
			go func() {
				defer wg.Done()
				staleErr = orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days})
			}()
			// Let the first request reach the gateway before issuing the
			// second, so the token order is deterministic.
			require.Eventually(t, func() bool {
				mu.Lock()
				defer mu.Unlock()
				return call == 1
			}, time.Second, time.Millisecond)

			go func() {
				defer wg.Done()
				newerErr = orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast30Days})
			}()
			require.Eventually(t, func() bool {
				mu.Lock()
				defer mu.Unlock()
				return call == 2
			}, time.Second, time.Millisecond)

			if tt.staleResolves == "first" {
				close(staleGate)
				close(newerGate)
			} else {
				close(newerGate)
				close(staleGate)
			}
			wg.Wait()

			assert.ErrorIs(t, staleErr, ErrSuperseded)
			assert.NoError(t, newerErr)

			state := orch.State()
			require.Len(t, state.Transactions, 1)
			assert.Equal(t, 2, state.Transactions[0].ID, "only the newest request's result may land")
			assert.Equal(t, PhaseIdle, state.Phase)
		})
	}
}

func TestOrchestrator_SupersededFailureIsSilent(t *testing.T) {
	staleGate := make(chan struct{})
	newerGate := make(chan struct{})

	mock := gateway.NewMock()
	var mu sync.Mutex
	call := 0
	mock.ListTransactionsFn = func(_ context.Context, _ gateway.TransactionQuery) ([]model.Transaction, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			<-staleGate
			return nil, common.ErrGatewayUnavailable
		}
		<-newerGate
		return []model.Transaction{}, nil
	}

	orch := newTestOrchestrator(mock)

	var wg sync.WaitGroup
	var staleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		staleErr = orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days})
	}()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return call == 1
	}, time.Second, time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast30Days})
	}()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return call == 2
	}, time.Second, time.Millisecond)

	close(newerGate)
	close(staleGate)
	wg.Wait()

	assert.ErrorIs(t, staleErr, ErrSuperseded)
	assert.NoError(t, orch.State().Err, "a superseded failure must not surface an error")
}

func TestOrchestrator_Sync(t *testing.T) {
	mock := gateway.NewMock()
	mock.SyncTransactionsFn = func(_ context.Context) (model.SyncResult, error) {
		return model.SyncResult{Message: "Sync complete", Created: 4, Updated: 2}, nil
	}

	orch := newTestOrchestrator(mock)
	criteria := filter.Criteria{Preset: filter.PresetLast30Days}
	require.NoError(t, orch.Refresh(context.Background(), criteria))
	require.Len(t, mock.ListTransactionsCalls, 1)

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, mock.SyncCalls)

	// The dataset changed, so the reload must bypass duplicate suppression.
	assert.Len(t, mock.ListTransactionsCalls, 2)
}

func TestOrchestrator_Sync_TriggerFailureSkipsReload(t *testing.T) {
	mock := gateway.NewMock()
	mock.SyncTransactionsFn = func(_ context.Context) (model.SyncResult, error) {
		return model.SyncResult{}, common.ErrGatewayUnavailable
	}

	orch := newTestOrchestrator(mock)
	_, err := orch.Sync(context.Background())
	assert.ErrorIs(t, err, common.ErrGatewayUnavailable)
	assert.Empty(t, mock.ListTransactionsCalls, "a failed sync trigger must not reload")
}

func TestOrchestrator_Subscribe(t *testing.T) {
	mock := gateway.NewMock()
	orch := newTestOrchestrator(mock)

	var phases []Phase
	orch.Subscribe(func(s ViewState) {
		phases = append(phases, s.Phase)
	})

	require.NoError(t, orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days}))
	assert.Equal(t, []Phase{PhaseFetching, PhaseIdle}, phases)
}

func TestOrchestrator_AuthFailureSurfaces(t *testing.T) {
	mock := gateway.NewMock()
	mock.ListAccountsFn = func(_ context.Context) ([]model.Account, error) {
		return nil, common.ErrAuthExpired
	}

	orch := newTestOrchestrator(mock)
	err := orch.Refresh(context.Background(), filter.Criteria{Preset: filter.PresetLast7Days})
	assert.ErrorIs(t, err, common.ErrAuthExpired)
	assert.True(t, errors.Is(orch.State().Err, common.ErrAuthExpired))
}
