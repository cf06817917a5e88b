package gateway

import (
	"context"

	"github.com/ledgerview/ledgerview/internal/model"
)

// Gateway defines the contract for the backend data source. The interface
// allows for easy mocking in tests and swapping the transport.
type Gateway interface {
	ListTransactions(ctx context.Context, query TransactionQuery) ([]model.Transaction, error)
	SyncTransactions(ctx context.Context) (model.SyncResult, error)
	GetSummary(ctx context.Context, period SummaryPeriod) (model.PeriodSummary, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	ListBudgetStatuses(ctx context.Context) ([]model.BudgetStatus, error)
	CreateBudget(ctx context.Context, budget model.Budget) (model.Budget, error)
	UpdateBudget(ctx context.Context, id int, patch BudgetPatch) (model.Budget, error)
	DeleteBudget(ctx context.Context, id int) error
	ListInsights(ctx context.Context) ([]model.Insight, error)
	GenerateInsights(ctx context.Context) ([]model.Insight, error)
	DismissInsight(ctx context.Context, id int) error
}
