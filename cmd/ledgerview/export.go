package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered ledger, summary, and budgets to Google Sheets",
		Long: `Fetches the dashboard views for the selected date range and writes
them to a Google Sheets spreadsheet. Credentials are read from the
GOOGLE_SHEETS_* environment variables; the spreadsheet is created on
first export and reused afterwards.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}

			orch, err := initOrchestrator()
			if err != nil {
				return err
			}

			if err := orch.Refresh(cmd.Context(), criteria); err != nil {
				return err
			}
			state := orch.State()

			sheetsConfig := sheets.DefaultConfig()
			if err := sheetsConfig.LoadFromEnv(); err != nil {
				return err
			}
			if name, _ := cmd.Flags().GetString("spreadsheet"); name != "" {
				sheetsConfig.SpreadsheetName = name
			}

			writer, err := sheets.NewWriter(cmd.Context(), sheetsConfig, slog.Default())
			if err != nil {
				return err
			}

			export := sheets.Export{
				StartDate: state.Query.StartDate,
				EndDate:   state.Query.EndDate,
				Groups:    state.Groups,
				Summary:   state.RangeSummary,
				Budgets:   state.Budgets,
			}
			if err := writer.Export(cmd.Context(), export); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf(
				"Exported %d transactions (%s to %s) to %q",
				state.RangeSummary.TransactionCount,
				state.Query.StartDate, state.Query.EndDate,
				sheetsConfig.SpreadsheetName)))
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().String("spreadsheet", "", "spreadsheet name (default from config)")
	return cmd
}
