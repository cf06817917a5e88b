package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/budget"
	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/gateway"
	"github.com/ledgerview/ledgerview/internal/model"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Track, create, and manage category budgets",
	}

	cmd.AddCommand(budgetsStatusCmd())
	cmd.AddCommand(budgetsCreateCmd())
	cmd.AddCommand(budgetsUpdateCmd())
	cmd.AddCommand(budgetsDeleteCmd())
	return cmd
}

func budgetsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show budget consumption for the current period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			statuses, err := gw.ListBudgetStatuses(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatTitle("Budgets"))
			if len(statuses) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No budgets yet. Create one with 'ledgerview budgets create'."))
				return nil
			}

			for _, raw := range statuses {
				// Rederive the flags locally so the display matches the
				// calculator's semantics.
				s := budget.Status(raw.Budget, raw.Spent)

				flag := ""
				switch {
				case s.IsOverBudget:
					flag = cli.ErrorStyle.Render("OVER")
				case s.IsNearThreshold:
					flag = cli.WarningStyle.Render("NEAR LIMIT")
				}

				cmd.Printf("#%-3d %-24s %-8s %10s spent of %-10s %6.1f%% used  %s\n",
					s.ID,
					s.Category,
					cli.SubtleStyle.Render(string(s.Period)),
					cli.FormatMagnitude(s.Spent),
					cli.FormatMagnitude(s.Amount),
					s.PercentageUsed,
					flag)
				cmd.Printf("     %s remaining\n", cli.FormatMagnitude(s.Remaining))
			}
			return nil
		},
	}
}

func budgetsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <category> <amount>",
		Short: "Create a budget for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "$"), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			period, _ := cmd.Flags().GetString("period")
			threshold, _ := cmd.Flags().GetFloat64("alert-threshold")

			created, err := gw.CreateBudget(cmd.Context(), model.Budget{
				Category:       args[0],
				Amount:         amount,
				Period:         model.BudgetPeriod(period),
				AlertThreshold: threshold,
				IsActive:       true,
			})
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf(
				"Created budget #%d: %s %s per %s (alert at %.0f%%)",
				created.ID, created.Category, cli.FormatMagnitude(created.Amount),
				strings.TrimSuffix(string(created.Period), "ly"), created.AlertThreshold)))
			return nil
		},
	}

	cmd.Flags().String("period", "monthly", "budget period: weekly, monthly, yearly")
	cmd.Flags().Float64("alert-threshold", 80, "warn when usage reaches this percentage")
	return cmd
}

func budgetsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a budget's amount, period, threshold, or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid budget ID %q: %w", args[0], err)
			}

			var patch gateway.BudgetPatch
			if cmd.Flags().Changed("amount") {
				amount, _ := cmd.Flags().GetFloat64("amount")
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("period") {
				raw, _ := cmd.Flags().GetString("period")
				period := model.BudgetPeriod(raw)
				if err := period.Validate(); err != nil {
					return err
				}
				patch.Period = &period
			}
			if cmd.Flags().Changed("alert-threshold") {
				threshold, _ := cmd.Flags().GetFloat64("alert-threshold")
				patch.AlertThreshold = &threshold
			}
			if cmd.Flags().Changed("active") {
				active, _ := cmd.Flags().GetBool("active")
				patch.IsActive = &active
			}
			if patch == (gateway.BudgetPatch{}) {
				return fmt.Errorf("nothing to update; pass at least one of --amount, --period, --alert-threshold, --active")
			}

			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			updated, err := gw.UpdateBudget(cmd.Context(), id, patch)
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf(
				"Updated budget #%d: %s %s per %s",
				updated.ID, updated.Category, cli.FormatMagnitude(updated.Amount),
				strings.TrimSuffix(string(updated.Period), "ly"))))
			return nil
		},
	}

	cmd.Flags().Float64("amount", 0, "new target amount")
	cmd.Flags().String("period", "", "new period: weekly, monthly, yearly")
	cmd.Flags().Float64("alert-threshold", 0, "new alert threshold percentage")
	cmd.Flags().Bool("active", true, "activate or deactivate the budget")
	return cmd
}

func budgetsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid budget ID %q: %w", args[0], err)
			}

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				ok, err := cli.Confirm(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Delete budget #%d?", id))
				if err != nil {
					return err
				}
				if !ok {
					cmd.Println("Canceled.")
					return nil
				}
			}

			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			if err := gw.DeleteBudget(cmd.Context(), id); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted budget #%d", id)))
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "skip the confirmation prompt")
	return cmd
}
