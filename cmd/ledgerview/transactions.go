package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/viewmodel"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns", "ls"},
		Short:   "List transactions as a date-grouped ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := initOrchestrator()
			if err != nil {
				return err
			}

			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}

			if err := orch.Refresh(cmd.Context(), criteria); err != nil {
				return err
			}

			printLedger(cmd, orch.State())
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

// printLedger renders the grouped ledger with per-day totals, newest first.
func printLedger(cmd *cobra.Command, state viewmodel.ViewState) {
	cmd.Println(cli.FormatTitle(fmt.Sprintf("Transactions %s – %s",
		state.Query.StartDate, state.Query.EndDate)))

	if len(state.Groups) == 0 {
		cmd.Println(cli.SubtleStyle.Render("No transactions in range."))
		return
	}

	accountNames := make(map[int]string, len(state.Accounts))
	for _, a := range state.Accounts {
		accountNames[a.ID] = a.DisplayName()
	}

	for _, g := range state.Groups {
		cmd.Printf("%s  %s\n",
			cli.BoldStyle.Render(g.Date.Format("Mon, Jan 2 2006")),
			cli.FormatAmount(g.DailyTotal))

		for _, t := range g.Transactions {
			name := t.DisplayName()
			if t.Pending {
				name += " " + cli.WarningStyle.Render("(pending)")
			}
			account := accountNames[t.AccountID]
			if account == "" {
				account = "Account"
			}
			cmd.Printf("  %-36s %-18s %-22s %s\n",
				name,
				cli.SubtleStyle.Render(account),
				cli.SubtleStyle.Render(t.CategoryLabel()),
				cli.FormatAmount(t.Amount))
		}
		cmd.Println()
	}

	s := state.RangeSummary
	cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf(
		"%d transactions • income %s • expenses %s • net %s",
		s.TransactionCount,
		cli.FormatMagnitude(s.TotalIncome),
		cli.FormatMagnitude(s.TotalExpenses),
		cli.FormatMagnitude(s.NetSavings))))
}
