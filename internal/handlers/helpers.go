package handlers

import (
	"context"
	"fmt"
	"log"
	"tg-info-bot/internal/locales"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// getLocalizer returns the localizer for the configured bot language.
// Every reply uses the same locale regardless of the sender's Telegram settings.
func (h *MessageHandler) getLocalizer() *i18n.Localizer {
	return locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
}

// text localizes msgID in the bot language.
func (h *MessageHandler) text(msg InboundMessage, msgID string, data map[string]interface{}) string {
	return locales.GetMessage(h.getLocalizer(), msgID, data, nil)
}

// reply sends an HTML-formatted text message to chatID.
// A failed send is logged and returned.
func (h *MessageHandler) reply(ctx context.Context, bot telegoapi.BotAPI, chatID int64, text string) error {
	params := tu.Message(tu.ID(chatID), text)
	params.ParseMode = telego.ModeHTML
	if _, err := bot.SendMessage(ctx, params); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
		return fmt.Errorf("failed to send reply to chat %d: %w", chatID, err)
	}
	return nil
}

// replyMsg localizes msgID and replies in the originating chat.
func (h *MessageHandler) replyMsg(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, msgID string, data map[string]interface{}) error {
	return h.reply(ctx, bot, msg.ChatID, h.text(msg, msgID, data))
}

// failureReplies maps the cause of a failed call to the message shown to the user.
type failureReplies struct {
	NotFound  string
	Forbidden string
	Rejected  string
	Transport string
}

// pick returns the message ID for kind, falling back to Transport for unset entries.
func (f failureReplies) pick(kind failureKind) string {
	var id string
	switch kind {
	case failureNotFound:
		id = f.NotFound
	case failureForbidden:
		id = f.Forbidden
	case failureRejected:
		id = f.Rejected
	}
	if id == "" {
		id = f.Transport
	}
	return id
}

// fail logs a failed Bot API call with its command context and sends the matching reply.
// API rejections are an expected outcome and return nil; transport failures are returned
// so the update loop can report them.
func (h *MessageHandler) fail(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, command string, target Target, err error, replies failureReplies) error {
	kind := classifyFailure(err)
	log.Printf("[Cmd:%s User:%d Chat:%d Target:%s] Bot API call failed (kind %d): %v",
		command, msg.From.ID, msg.ChatID, target, kind, err)

	sendErr := h.replyMsg(ctx, bot, msg, replies.pick(kind), nil)
	if kind == failureTransport {
		return fmt.Errorf("%s for %s: %w", command, target, err)
	}
	return sendErr
}

// yesNo localizes a boolean.
func (h *MessageHandler) yesNo(msg InboundMessage, v bool) string {
	if v {
		return h.text(msg, "MsgYes", nil)
	}
	return h.text(msg, "MsgNo", nil)
}
