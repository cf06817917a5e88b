// Package budget derives consumption status from a budget definition and
// its period spend. The spend figure is supplied by the backend, which owns
// category and period attribution; this package is purely the arithmetic
// and flag derivation.
package budget

import "github.com/ledgerview/ledgerview/internal/model"

// Status computes the derived consumption figures for a budget. Values are
// not clamped here: a refund-heavy period yields negative spent and
// remaining greater than the target, and percentage used can exceed 100.
// Clamping to a 0-100 range is a display concern.
func Status(b model.Budget, spent float64) model.BudgetStatus {
	percentageUsed := 0.0
	if b.Amount != 0 {
		percentageUsed = spent / b.Amount * 100
	}

	isOverBudget := spent > b.Amount

	return model.BudgetStatus{
		Budget:          b,
		Spent:           spent,
		Remaining:       b.Amount - spent,
		PercentageUsed:  percentageUsed,
		IsOverBudget:    isOverBudget,
		IsNearThreshold: percentageUsed >= b.AlertThreshold && !isOverBudget,
	}
}

// DisplayPercent clamps a percentage to the 0-100 range for rendering as a
// bounded progress indicator.
func DisplayPercent(percentageUsed float64) float64 {
	if percentageUsed < 0 {
		return 0
	}
	if percentageUsed > 100 {
		return 100
	}
	return percentageUsed
}
