package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "View and manage spending insights",
	}

	cmd.AddCommand(insightsListCmd())
	cmd.AddCommand(insightsGenerateCmd())
	cmd.AddCommand(insightsDismissCmd())
	return cmd
}

func insightsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			insights, err := gw.ListInsights(cmd.Context())
			if err != nil {
				return err
			}

			all, _ := cmd.Flags().GetBool("all")

			cmd.Println(cli.FormatTitle("Insights"))
			shown := 0
			for _, in := range insights {
				if in.Dismissed && !all {
					continue
				}
				shown++

				marker := cli.BulbIcon
				if in.Dismissed {
					marker = cli.SubtleStyle.Render("(dismissed)")
				}
				cmd.Printf("%s #%-3d %s\n", marker, in.ID, cli.BoldStyle.Render(in.Title))
				cmd.Printf("      %s\n", in.Description)
				if in.Amount != nil {
					cmd.Printf("      %s\n", cli.FormatMagnitude(*in.Amount))
				}
				if in.Action != "" {
					cmd.Printf("      %s\n", cli.InfoStyle.Render(in.Action))
				}
			}
			if shown == 0 {
				cmd.Println(cli.SubtleStyle.Render("No insights. Run 'ledgerview insights generate' to analyze recent activity."))
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "include dismissed insights")
	return cmd
}

func insightsGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Analyze recent activity and generate fresh insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			insights, err := gw.GenerateInsights(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Generated %d insights", len(insights))))
			for _, in := range insights {
				cmd.Printf("%s #%-3d %s\n", cli.BulbIcon, in.ID, in.Title)
			}
			return nil
		},
	}
}

func insightsDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss an insight so it no longer appears",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid insight ID %q: %w", args[0], err)
			}

			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			if err := gw.DismissInsight(cmd.Context(), id); err != nil {
				return err
			}

			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Dismissed insight #%d", id)))
			return nil
		},
	}
}
