package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List linked accounts and balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			accounts, err := gw.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(cli.FormatTitle("Accounts"))
			if len(accounts) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No linked accounts. Link a bank from the web app first."))
				return nil
			}

			var total float64
			for _, a := range accounts {
				mask := ""
				if a.Mask != "" {
					mask = "••" + a.Mask
				}
				cmd.Printf("%s %-28s %-22s %-10s %14s\n",
					cli.BankIcon,
					a.DisplayName(),
					cli.SubtleStyle.Render(a.InstitutionName),
					cli.SubtleStyle.Render(mask),
					cli.FormatMagnitude(a.BalanceCurrent))
				total += a.BalanceCurrent
			}

			cmd.Println()
			cmd.Printf("%s %s\n",
				cli.BoldStyle.Render("Total balance:"),
				cli.BoldStyle.Render(fmt.Sprintf("$%.2f", total)))
			return nil
		},
	}
}
