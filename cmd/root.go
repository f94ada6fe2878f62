package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X tg-info-bot/cmd.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tg-info-bot",
	Short: "Telegram bot that looks up users, groups and channels",
	Long: `tg-info-bot receives Telegram updates on a webhook and answers lookup
commands such as /userinfo, /groupinfo and /profilephoto.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
