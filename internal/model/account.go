package model

// Account is a linked bank account as reported by the backend. Balances
// are refreshed on sync and may lag the institution by up to a day.
type Account struct {
	ID               int     `json:"id"`
	AccountID        string  `json:"account_id"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"official_name,omitempty"`
	InstitutionName  string  `json:"institution_name,omitempty"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype,omitempty"`
	Mask             string  `json:"mask,omitempty"`
	BalanceCurrent   float64 `json:"balance_current"`
	BalanceAvailable float64 `json:"balance_available"`
	CurrencyCode     string  `json:"currency_code,omitempty"`
}

// DisplayName prefers the institution-qualified name when available.
func (a Account) DisplayName() string {
	if a.InstitutionName != "" {
		return a.InstitutionName + " " + a.Name
	}
	return a.Name
}
