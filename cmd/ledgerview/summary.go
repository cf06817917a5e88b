package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/gateway"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses, and savings for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			period, _ := cmd.Flags().GetString("period")
			summary, err := gw.GetSummary(cmd.Context(), gateway.SummaryPeriod(period))
			if err != nil {
				return err
			}

			content := fmt.Sprintf(
				"Income        %s\nExpenses      %s\nNet savings   %s\nTransactions  %d",
				cli.SuccessStyle.Render(cli.FormatMagnitude(summary.TotalIncome)),
				cli.ErrorStyle.Render(cli.FormatMagnitude(summary.TotalExpenses)),
				cli.BoldStyle.Render(cli.FormatMagnitude(summary.NetSavings)),
				summary.TransactionCount)

			cmd.Println(cli.RenderBox(fmt.Sprintf("Summary (%s)", period), content))

			if len(summary.ByCategory) > 0 {
				cmd.Println(cli.BoldStyle.Render("By category"))
				for _, row := range summary.ByCategory {
					cmd.Printf("  %-28s %s\n", row.Category, cli.FormatAmount(row.Amount))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("period", "month", "reporting period: day, week, month, quarter, year")
	return cmd
}
