package cmd

import (
	"context"
	"fmt"
	"tg-info-bot/config"
	"time"

	"github.com/mymmrac/telego"
	"github.com/spf13/cobra"
)

var setWebhookCmd = &cobra.Command{
	Use:   "set-webhook",
	Short: "Register WEBHOOK_URL/webhook with Telegram and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		endpoint := cfg.WebhookEndpoint()
		if endpoint == "" {
			return fmt.Errorf("WEBHOOK_URL is not set")
		}

		bot, err := newTelegoBot(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if err := bot.SetWebhook(ctx, &telego.SetWebhookParams{
			URL:         endpoint,
			SecretToken: cfg.WebhookSecret,
		}); err != nil {
			return fmt.Errorf("setting webhook: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Webhook set: %s\n", endpoint)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setWebhookCmd)
}
