package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/wildlife-watch-api/config"
)

var conf *config.Config

var rootCmd = &cobra.Command{
	Use:   "wildlife-watch-api",
	Short: "Community wildlife sighting reports",
	Long: `Backend for the wildlife watch portal: live reporting views over
websockets, the public report API, moderation and the daily digest.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		conf = config.New()
	},
	// heroku starts the binary without arguments
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.S().Errorw("command failed", "error", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}
