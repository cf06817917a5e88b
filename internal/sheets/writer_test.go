package sheets

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/model"
)

func testExport() Export {
	jun10 := model.NewDate(2024, time.June, 10)
	jun9 := model.NewDate(2024, time.June, 9)

	return Export{
		StartDate: jun9,
		EndDate:   jun10,
		Groups: []model.DateGroup{
			{
				Date: jun10,
				Transactions: []model.Transaction{
					{ID: 1, Date: jun10, Amount: -25, Name: "GROCERY", PrimaryCategory: "Groceries"},
					{ID: 2, Date: jun10, Amount: -5, Name: "PARKING"},
				},
				DailyTotal: -30,
			},
			{
				Date: jun9,
				Transactions: []model.Transaction{
					{ID: 3, Date: jun9, Amount: 1500, Name: "PAYCHECK", MerchantName: "Acme Payroll"},
				},
				DailyTotal: 1500,
			},
		},
		Summary: model.PeriodSummary{
			TotalIncome:      1500,
			TotalExpenses:    30,
			NetSavings:       1470,
			TransactionCount: 3,
			ByCategory: []model.CategoryAmount{
				{Category: "Groceries", Amount: -25},
			},
		},
		Budgets: []model.BudgetStatus{
			{
				Budget:          model.Budget{Category: "Groceries", Amount: 100, Period: model.PeriodMonthly, AlertThreshold: 80},
				Spent:           25,
				Remaining:       75,
				PercentageUsed:  25,
				IsOverBudget:    false,
				IsNearThreshold: false,
			},
		},
	}
}

func TestWriter_PrepareRows(t *testing.T) {
	w := &Writer{config: DefaultConfig(), logger: slog.Default()}
	rows := w.prepareRows(testExport())

	// Header carries the export range.
	require.NotEmpty(t, rows)
	assert.Equal(t, []any{"Ledgerview Export", "2024-06-09 - 2024-06-10"}, rows[0])

	flat := make(map[string]int)
	for i, row := range rows {
		if len(row) > 0 {
			if s, ok := row[0].(string); ok {
				flat[s] = i
			}
		}
	}

	// Section order: summary, categories, budgets, ledger.
	require.Contains(t, flat, "Summary")
	require.Contains(t, flat, "Budgets")
	require.Contains(t, flat, "Ledger")
	assert.Less(t, flat["Summary"], flat["Budgets"])
	assert.Less(t, flat["Budgets"], flat["Ledger"])

	// Each group contributes a Daily Total row before its transactions.
	jun10Total := -1
	for i, row := range rows {
		if len(row) >= 4 && row[0] == "2024-06-10" && row[1] == "Daily Total" {
			jun10Total = i
			assert.Equal(t, -30.0, row[3])
		}
	}
	require.GreaterOrEqual(t, jun10Total, 0, "expected a daily total row for 2024-06-10")
	assert.Equal(t, "GROCERY", rows[jun10Total+1][1])
	assert.Equal(t, "Groceries", rows[jun10Total+1][2])

	// Merchant names are preferred in the ledger.
	found := false
	for _, row := range rows {
		if len(row) >= 2 && row[1] == "Acme Payroll" {
			found = true
		}
	}
	assert.True(t, found, "ledger rows should use the display name")
}

func TestWriter_PrepareRows_EmptyExport(t *testing.T) {
	w := &Writer{config: DefaultConfig(), logger: slog.Default()}
	rows := w.prepareRows(Export{
		StartDate: model.NewDate(2024, time.June, 9),
		EndDate:   model.NewDate(2024, time.June, 10),
	})

	// Still emits the header and section scaffolding, with no data rows.
	require.NotEmpty(t, rows)
	for _, row := range rows {
		if len(row) > 0 {
			assert.NotEqual(t, "Daily Total", row[0])
		}
	}
}
