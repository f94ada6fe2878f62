package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"tg-info-bot/config"
	"tg-info-bot/internal/auth"
	"tg-info-bot/internal/database"
	"tg-info-bot/internal/handlers"
	"tg-info-bot/internal/locales"
	"tg-info-bot/internal/ratelimit"
	"tg-info-bot/internal/registry"
	"tg-info-bot/internal/webhook"
	"time"

	appbot "tg-info-bot/bot"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and process updates",
	Long: `Starts the HTTP server that receives Telegram webhook deliveries and the
update loop that dispatches commands. When WEBHOOK_URL is set the webhook and
the command menu are registered with Telegram on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newTelegoBot creates the Telegram client; debug mode logs every API call.
func newTelegoBot(cfg *config.Config) (*telego.Bot, error) {
	var (
		bot *telego.Bot
		err error
	)
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, true))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create telego bot: %w", err)
	}
	return bot, nil
}

func runServe(parent context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Version == "" || cfg.Version == "dev" {
		cfg.Version = Version
	}

	locales.Init(cfg.Language)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("Error closing user store: %v", err)
			sentry.CaptureException(err)
		}
	}()

	users, err := registry.New(ctx, store)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Window:       cfg.RateLimitWindow,
		MaxPerWindow: cfg.RateLimitMax,
		Capacity:     cfg.RateLimitCapacity,
	})

	bot, err := newTelegoBot(cfg)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	messageHandler, err := handlers.NewMessageHandler(handlers.Deps{
		Registry:      users,
		Limiter:       limiter,
		AdminChecker:  auth.NewAdminChecker(cfg.AdminIDs),
		WebhookURL:    cfg.WebhookURL,
		WebhookSecret: cfg.WebhookSecret,
		Debug:         cfg.Debug,
	})
	if err != nil {
		return err
	}

	if endpoint := cfg.WebhookEndpoint(); endpoint != "" {
		if err := bot.SetWebhook(ctx, &telego.SetWebhookParams{
			URL:         endpoint,
			SecretToken: cfg.WebhookSecret,
		}); err != nil {
			log.Printf("Failed to register webhook %s: %v", endpoint, err)
			sentry.CaptureException(err)
		} else {
			log.Printf("Webhook registered: %s", endpoint)
		}
		if err := messageHandler.RegisterCommands(ctx, bot); err != nil {
			log.Printf("Failed to register bot commands: %v", err)
			sentry.CaptureException(err)
		}
	}

	server := webhook.New(webhook.Config{
		Port:   cfg.Port,
		Path:   config.WebhookPath,
		Secret: cfg.WebhookSecret,
		Debug:  cfg.Debug,
	})

	appBot, err := appbot.New(appbot.BotDeps{
		Bot:              bot,
		UpdatesChan:      server.Updates(),
		Handler:          messageHandler,
		Debug:            cfg.Debug,
		UpdatesPerSecond: cfg.UpdatesPerSecond,
	})
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	loopDone := make(chan struct{})
	go func() {
		appBot.Start(context.WithoutCancel(ctx))
		close(loopDone)
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-serverErr:
		if err != nil {
			log.Printf("Webhook server stopped: %v", err)
			sentry.CaptureException(err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("Error shutting down webhook server: %v", shutdownErr)
	}

	// The loop drains once the update channel is closed by Shutdown.
	select {
	case <-loopDone:
		log.Println("Bot shutdown complete.")
	case <-shutdownCtx.Done():
		log.Println("Timed out waiting for in-flight updates.")
	}
	return err
}
