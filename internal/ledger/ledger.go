// Package ledger derives UI-ready aggregates from transaction sets: the
// date-grouped ledger and the period summary. All results are transient view
// state, recomputed on every fetch cycle.
package ledger

import (
	"sort"

	"github.com/ledgerview/ledgerview/internal/model"
)

// GroupByDay partitions transactions by calendar date. Transactions sharing
// a date keep their relative order as received, groups are ordered newest
// first, and each group's DailyTotal is the sum of its signed amounts.
// Empty partitions never appear.
func GroupByDay(txns []model.Transaction) []model.DateGroup {
	if len(txns) == 0 {
		return nil
	}

	byDate := make(map[model.Date][]model.Transaction)
	order := make([]model.Date, 0)
	for _, t := range txns {
		if _, seen := byDate[t.Date]; !seen {
			order = append(order, t.Date)
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].After(order[j].Time)
	})

	groups := make([]model.DateGroup, 0, len(order))
	for _, date := range order {
		members := byDate[date]
		total := 0.0
		for _, t := range members {
			total += t.Amount
		}
		groups = append(groups, model.DateGroup{
			Date:         date,
			Transactions: members,
			DailyTotal:   total,
		})
	}
	return groups
}

// Summarize reduces a transaction set to its period summary in a single
// pass. An empty input is a valid state and yields all-zero totals, not an
// error. Expenses are reported as a positive magnitude, so
// NetSavings = TotalIncome - TotalExpenses.
func Summarize(txns []model.Transaction) model.PeriodSummary {
	summary := model.PeriodSummary{TransactionCount: len(txns)}

	byCategory := make(map[string]float64)
	order := make([]string, 0)
	for _, t := range txns {
		switch {
		case t.Amount > 0:
			summary.TotalIncome += t.Amount
		case t.Amount < 0:
			summary.TotalExpenses += -t.Amount
		}

		label := t.CategoryLabel()
		if _, seen := byCategory[label]; !seen {
			order = append(order, label)
		}
		byCategory[label] += t.Amount
	}
	summary.NetSavings = summary.TotalIncome - summary.TotalExpenses

	if len(order) > 0 {
		summary.ByCategory = make([]model.CategoryAmount, 0, len(order))
		for _, label := range order {
			summary.ByCategory = append(summary.ByCategory, model.CategoryAmount{
				Category: label,
				Amount:   byCategory[label],
			})
		}
	}
	return summary
}
