package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgerview/ledgerview/internal/cli"
	"github.com/ledgerview/ledgerview/internal/model"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync transactions from your linked banks",
		Long: `Triggers a remote synchronization against the bank-link provider.
The sync is never retried automatically; if it fails, run it again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := initSession()
			if err != nil {
				return err
			}
			gw, err := initGateway(sess)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Syncing transactions..."),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			)

			done := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						_ = bar.Add(1)
					}
				}
			}()

			result, err := gw.SyncTransactions(cmd.Context())
			close(done)
			_ = bar.Finish()
			cmd.Println()

			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			printSyncResult(cmd, result)
			return nil
		},
	}
}

func printSyncResult(cmd *cobra.Command, result model.SyncResult) {
	msg := result.Message
	if msg == "" {
		msg = "Sync complete"
	}
	cmd.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d new, %d updated",
		msg, result.Created, result.Updated)))
}
