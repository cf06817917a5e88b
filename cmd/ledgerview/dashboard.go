package main

import (
	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, err := initOrchestrator()
			if err != nil {
				return err
			}

			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), orch, criteria)
		},
	}

	addFilterFlags(cmd)
	return cmd
}
