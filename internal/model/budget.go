package model

import "fmt"

// BudgetPeriod is the recurring window a budget applies to.
type BudgetPeriod string

// Supported budget periods.
const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// Validate checks that the period is one of the supported granularities.
func (p BudgetPeriod) Validate() error {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return nil
	}
	return fmt.Errorf("invalid budget period: %q", p)
}

// Budget is a spending target for a category over a recurring period.
type Budget struct {
	ID             int          `json:"id"`
	Category       string       `json:"category"`
	Amount         float64      `json:"amount"`
	Period         BudgetPeriod `json:"period"`
	AlertThreshold float64      `json:"alert_threshold"`
	IsActive       bool         `json:"is_active"`
}

// Validate checks the budget definition before it is sent to the backend.
func (b Budget) Validate() error {
	if b.Category == "" {
		return fmt.Errorf("budget category is required")
	}
	if b.Amount < 0 {
		return fmt.Errorf("budget amount cannot be negative, got %.2f", b.Amount)
	}
	if b.AlertThreshold < 0 || b.AlertThreshold > 100 {
		return fmt.Errorf("alert threshold must be between 0 and 100, got %.1f", b.AlertThreshold)
	}
	return b.Period.Validate()
}

// BudgetStatus is a budget definition plus its derived consumption figures
// for the current period. It is recomputed on every fetch and never stored.
type BudgetStatus struct {
	Budget
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`
	PercentageUsed  float64 `json:"percentage_used"`
	IsOverBudget    bool    `json:"is_over_budget"`
	IsNearThreshold bool    `json:"is_near_threshold"`
}
