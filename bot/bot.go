package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"tg-info-bot/internal/handlers"
	telegoapi "tg-info-bot/pkg/telegoapi"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"go.uber.org/ratelimit"
)

// DefaultUpdatesPerSecond paces update processing across all users.
const DefaultUpdatesPerSecond = 20

// DefaultProcessingTimeout bounds the handling of a single update.
const DefaultProcessingTimeout = 30 * time.Second

// MessageDispatcher handles one inbound message end to end.
type MessageDispatcher interface {
	HandleMessage(ctx context.Context, bot telegoapi.BotAPI, msg handlers.InboundMessage) error
}

// Bot consumes webhook updates and runs each one through the dispatcher on its own goroutine.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	handler     MessageDispatcher
	debug       bool
	timeout     time.Duration
	ratelimiter ratelimit.Limiter
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot               telegoapi.BotAPI
	UpdatesChan       <-chan telego.Update
	Handler           MessageDispatcher
	Debug             bool
	UpdatesPerSecond  int
	ProcessingTimeout time.Duration
}

// New creates a new Bot instance from its dependencies.
// Returns the new Bot instance or an error if dependencies are missing.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	perSecond := deps.UpdatesPerSecond
	if perSecond <= 0 {
		perSecond = DefaultUpdatesPerSecond
	}
	timeout := deps.ProcessingTimeout
	if timeout <= 0 {
		timeout = DefaultProcessingTimeout
	}

	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		handler:     deps.Handler,
		debug:       deps.Debug,
		timeout:     timeout,
		ratelimiter: ratelimit.New(perSecond),
	}, nil
}

// handleMessageUpdate converts a message and passes it to the dispatcher.
func (b *Bot) handleMessageUpdate(ctx context.Context, message telego.Message) {
	msg, ok := handlers.NewInboundMessage(message)
	if !ok {
		if b.debug {
			log.Printf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
		}
		return
	}

	logPrefix := fmt.Sprintf("[User:%d Chat:%d Msg:%d]", msg.From.ID, msg.ChatID, msg.MessageID)
	if err := b.handler.HandleMessage(ctx, b.bot, msg); err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
		return
	}
	if b.debug {
		log.Printf("%s Handled", logPrefix)
	}
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	switch {
	case update.Message != nil:
		b.handleMessageUpdate(processingCtx, *update.Message)
	case update.EditedMessage != nil:
		b.handleMessageUpdate(processingCtx, *update.EditedMessage)
	default:
		if b.debug {
			log.Printf("Ignoring unhandled update type (ID: %d)", update.UpdateID)
		}
	}
}

// Start begins the bot's update processing loop. It returns once ctx is done or the
// updates channel is closed, after every in-flight update has finished.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				// In-flight updates finish within their own timeout after shutdown starts.
				b.processUpdate(context.WithoutCancel(ctx), up)
			}(update)
		}
	}
}
