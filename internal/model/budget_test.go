package model

import "testing"

func TestBudget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		budget  Budget
		wantErr bool
	}{
		{
			name: "valid monthly budget",
			budget: Budget{
				Category:       "Groceries",
				Amount:         600,
				Period:         PeriodMonthly,
				AlertThreshold: 80,
			},
			wantErr: false,
		},
		{
			name: "zero amount is allowed",
			budget: Budget{
				Category: "Impulse Purchases",
				Amount:   0,
				Period:   PeriodWeekly,
			},
			wantErr: false,
		},
		{
			name: "missing category",
			budget: Budget{
				Amount: 100,
				Period: PeriodMonthly,
			},
			wantErr: true,
			errMsg:  "budget category is required",
		},
		{
			name: "negative amount",
			budget: Budget{
				Category: "Groceries",
				Amount:   -50,
				Period:   PeriodMonthly,
			},
			wantErr: true,
			errMsg:  "budget amount cannot be negative, got -50.00",
		},
		{
			name: "threshold over 100",
			budget: Budget{
				Category:       "Groceries",
				Amount:         100,
				Period:         PeriodMonthly,
				AlertThreshold: 120,
			},
			wantErr: true,
			errMsg:  "alert threshold must be between 0 and 100, got 120.0",
		},
		{
			name: "unknown period",
			budget: Budget{
				Category: "Groceries",
				Amount:   100,
				Period:   "fortnightly",
			},
			wantErr: true,
			errMsg:  `invalid budget period: "fortnightly"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}
