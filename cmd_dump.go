package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/wildlife-watch-api/api/scheduler"
	"github.com/linesmerrill/wildlife-watch-api/store"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every stored report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		client, err := store.Dial(ctx, conf)
		if err != nil {
			return err
		}
		defer client.Close(context.Background())

		reports, err := client.FetchPage(ctx, 1, 0)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the sightings digest now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if conf.SendgridAPIKey == "" || conf.DigestEmail == "" {
			return fmt.Errorf("SENDGRID_API_KEY and DIGEST_EMAIL must be set")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		client, err := store.Dial(ctx, conf)
		if err != nil {
			return err
		}
		defer client.Close(context.Background())

		mailer := scheduler.NewSendgridMailer(conf.SendgridAPIKey)
		return scheduler.NewScheduler(client, mailer, conf).SendDigest(ctx)
	},
}
