package model

// CategoryAmount is one row of a summary's per-category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// PeriodSummary aggregates a transaction set over a reporting period.
// TotalExpenses is a positive magnitude; NetSavings = TotalIncome - TotalExpenses.
type PeriodSummary struct {
	TotalIncome      float64          `json:"total_income"`
	TotalExpenses    float64          `json:"total_expenses"`
	NetSavings       float64          `json:"net_savings"`
	TransactionCount int              `json:"transaction_count"`
	ByCategory       []CategoryAmount `json:"by_category,omitempty"`
}

// DateGroup is one calendar day of the ledger: the day's transactions in
// server order plus their signed net total. Derived only from non-empty
// partitions, so a group always has at least one transaction.
type DateGroup struct {
	Date         Date
	Transactions []Transaction
	DailyTotal   float64
}

// SyncResult reports the outcome of a remote synchronization run.
type SyncResult struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}
