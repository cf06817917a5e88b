package gateway

import (
	"context"
	"sync"

	"github.com/ledgerview/ledgerview/internal/model"
)

// Mock is a mock implementation of Gateway for testing. Call tracking is
// synchronized so tests may issue concurrent requests.
type Mock struct {
	mu sync.Mutex

	// Functions that can be set by tests to control behavior
	ListTransactionsFn   func(ctx context.Context, query TransactionQuery) ([]model.Transaction, error)
	SyncTransactionsFn   func(ctx context.Context) (model.SyncResult, error)
	GetSummaryFn         func(ctx context.Context, period SummaryPeriod) (model.PeriodSummary, error)
	ListAccountsFn       func(ctx context.Context) ([]model.Account, error)
	ListBudgetStatusesFn func(ctx context.Context) ([]model.BudgetStatus, error)
	CreateBudgetFn       func(ctx context.Context, budget model.Budget) (model.Budget, error)
	UpdateBudgetFn       func(ctx context.Context, id int, patch BudgetPatch) (model.Budget, error)
	DeleteBudgetFn       func(ctx context.Context, id int) error
	ListInsightsFn       func(ctx context.Context) ([]model.Insight, error)
	GenerateInsightsFn   func(ctx context.Context) ([]model.Insight, error)
	DismissInsightFn     func(ctx context.Context, id int) error

	// Call tracking
	ListTransactionsCalls []TransactionQuery
	SyncCalls             int
	SummaryCalls          []SummaryPeriod
	ListAccountsCalls     int
	BudgetStatusCalls     int
	DismissedInsights     []int
}

// NewMock creates a new mock gateway.
func NewMock() *Mock {
	return &Mock{}
}

// ListTransactions implements Gateway.ListTransactions.
func (m *Mock) ListTransactions(ctx context.Context, query TransactionQuery) ([]model.Transaction, error) {
	m.mu.Lock()
	m.ListTransactionsCalls = append(m.ListTransactionsCalls, query)
	m.mu.Unlock()
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, query)
	}
	return []model.Transaction{}, nil
}

// SyncTransactions implements Gateway.SyncTransactions.
func (m *Mock) SyncTransactions(ctx context.Context) (model.SyncResult, error) {
	m.mu.Lock()
	m.SyncCalls++
	m.mu.Unlock()
	if m.SyncTransactionsFn != nil {
		return m.SyncTransactionsFn(ctx)
	}
	return model.SyncResult{Message: "Sync complete"}, nil
}

// GetSummary implements Gateway.GetSummary.
func (m *Mock) GetSummary(ctx context.Context, period SummaryPeriod) (model.PeriodSummary, error) {
	m.mu.Lock()
	m.SummaryCalls = append(m.SummaryCalls, period)
	m.mu.Unlock()
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx, period)
	}
	return model.PeriodSummary{}, nil
}

// ListAccounts implements Gateway.ListAccounts.
func (m *Mock) ListAccounts(ctx context.Context) ([]model.Account, error) {
	m.mu.Lock()
	m.ListAccountsCalls++
	m.mu.Unlock()
	if m.ListAccountsFn != nil {
		return m.ListAccountsFn(ctx)
	}
	return []model.Account{}, nil
}

// ListBudgetStatuses implements Gateway.ListBudgetStatuses.
func (m *Mock) ListBudgetStatuses(ctx context.Context) ([]model.BudgetStatus, error) {
	m.mu.Lock()
	m.BudgetStatusCalls++
	m.mu.Unlock()
	if m.ListBudgetStatusesFn != nil {
		return m.ListBudgetStatusesFn(ctx)
	}
	return []model.BudgetStatus{}, nil
}

// CreateBudget implements Gateway.CreateBudget.
func (m *Mock) CreateBudget(ctx context.Context, budget model.Budget) (model.Budget, error) {
	if m.CreateBudgetFn != nil {
		return m.CreateBudgetFn(ctx, budget)
	}
	return budget, nil
}

// UpdateBudget implements Gateway.UpdateBudget.
func (m *Mock) UpdateBudget(ctx context.Context, id int, patch BudgetPatch) (model.Budget, error) {
	if m.UpdateBudgetFn != nil {
		return m.UpdateBudgetFn(ctx, id, patch)
	}
	return model.Budget{ID: id}, nil
}

// DeleteBudget implements Gateway.DeleteBudget.
func (m *Mock) DeleteBudget(ctx context.Context, id int) error {
	if m.DeleteBudgetFn != nil {
		return m.DeleteBudgetFn(ctx, id)
	}
	return nil
}

// ListInsights implements Gateway.ListInsights.
func (m *Mock) ListInsights(ctx context.Context) ([]model.Insight, error) {
	if m.ListInsightsFn != nil {
		return m.ListInsightsFn(ctx)
	}
	return []model.Insight{}, nil
}

// GenerateInsights implements Gateway.GenerateInsights.
func (m *Mock) GenerateInsights(ctx context.Context) ([]model.Insight, error) {
	if m.GenerateInsightsFn != nil {
		return m.GenerateInsightsFn(ctx)
	}
	return []model.Insight{}, nil
}

// DismissInsight implements Gateway.DismissInsight.
func (m *Mock) DismissInsight(ctx context.Context, id int) error {
	m.mu.Lock()
	m.DismissedInsights = append(m.DismissedInsights, id)
	m.mu.Unlock()
	if m.DismissInsightFn != nil {
		return m.DismissInsightFn(ctx, id)
	}
	return nil
}

// Ensure Mock implements the Gateway interface.
var _ Gateway = (*Mock)(nil)
