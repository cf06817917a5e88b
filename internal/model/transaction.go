package model

// Transaction is a single synced transaction. Amounts are signed: positive
// is an inflow, negative an outflow. Transactions are immutable snapshots;
// edits happen server-side and are observed on the next fetch.
type Transaction struct {
	ID              int      `json:"id"`
	AccountID       int      `json:"account_id"`
	Date            Date     `json:"date"`
	Amount          float64  `json:"amount"`
	Name            string   `json:"name"`
	MerchantName    string   `json:"merchant_name,omitempty"`
	Category        []string `json:"category,omitempty"` // most general first
	PrimaryCategory string   `json:"primary_category,omitempty"`
	Pending         bool     `json:"pending"`
}

// DisplayName prefers the cleaned merchant name over the raw description.
func (t Transaction) DisplayName() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// CategoryLabel returns the primary category, falling back to the first
// entry of the category path, then to "Uncategorized".
func (t Transaction) CategoryLabel() string {
	if t.PrimaryCategory != "" {
		return t.PrimaryCategory
	}
	if len(t.Category) > 0 {
		return t.Category[0]
	}
	return "Uncategorized"
}
