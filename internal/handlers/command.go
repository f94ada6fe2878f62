package handlers

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"tg-info-bot/config"
	"tg-info-bot/internal/locales"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// RegisterCommands publishes the public command list to the Telegram command menu.
func (h *MessageHandler) RegisterCommands(ctx context.Context, bot telegoapi.BotAPI) error {
	loc := h.getLocalizer()
	var botCommands []telego.BotCommand
	for _, cmd := range h.commands {
		if cmd.AdminOnly {
			continue
		}
		botCommands = append(botCommands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(loc, cmd.Description, nil, nil),
		})
	}
	if err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: botCommands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	log.Printf("Registered %d bot commands", len(botCommands))
	return nil
}

// HandleStart greets the sender and lists the public commands.
func (h *MessageHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	var names []string
	for _, cmd := range h.commands {
		if !cmd.AdminOnly {
			names = append(names, "/"+cmd.Command)
		}
	}
	return h.replyMsg(ctx, bot, msg, "MsgStart", map[string]interface{}{
		"Name":     html.EscapeString(msg.From.FirstName),
		"Commands": strings.Join(names, ", "),
	})
}

// HandleMe echoes the sender's own profile from the message itself.
func (h *MessageHandler) HandleMe(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	return h.replyMsg(ctx, bot, msg, "MsgMeProfile", map[string]interface{}{
		"ID":       msg.From.ID,
		"Name":     fullName(msg.From.FirstName, msg.From.LastName),
		"Username": usernameOrDash(msg.From.Username),
		"IsBot":    h.yesNo(msg, msg.From.IsBot),
	})
}

// HandleBotInfo reports the bot's own identity.
func (h *MessageHandler) HandleBotInfo(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	me, err := bot.GetMe(ctx)
	if err != nil {
		return h.fail(ctx, bot, msg, CmdBotInfo, Target{}, err, failureReplies{
			NotFound:  "MsgBotInfoNotFound",
			Forbidden: "MsgBotInfoNotFound",
			Rejected:  "MsgBotInfoNotFound",
			Transport: "MsgErrorGeneral",
		})
	}
	return h.replyMsg(ctx, bot, msg, "MsgBotInfo", map[string]interface{}{
		"ID":       me.ID,
		"Name":     fullName(me.FirstName, me.LastName),
		"Username": usernameOrDash(me.Username),
	})
}

// HandleWhoAmI reports the sender's membership status in the current chat.
func (h *MessageHandler) HandleWhoAmI(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	target := Target{Kind: TargetID, ID: msg.From.ID, Source: SourceSender}
	member, err := bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(msg.ChatID),
		UserID: msg.From.ID,
	})
	if err != nil {
		return h.fail(ctx, bot, msg, CmdWhoAmI, target, err, failureReplies{
			NotFound:  "MsgWhoAmINotFound",
			Forbidden: "MsgWhoAmINotFound",
			Rejected:  "MsgWhoAmINotFound",
			Transport: "MsgWhoAmIFailed",
		})
	}
	return h.replyMsg(ctx, bot, msg, "MsgWhoAmI", map[string]interface{}{
		"Status": member.MemberStatus(),
	})
}

// HandleStats reports how many distinct users the bot has seen.
func (h *MessageHandler) HandleStats(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	return h.replyMsg(ctx, bot, msg, "MsgStats", map[string]interface{}{
		"Count": h.registry.Count(),
	})
}

// HandleSetWebhook registers the configured public URL plus the callback path with Telegram.
func (h *MessageHandler) HandleSetWebhook(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, _ []string) error {
	if h.webhookURL == "" {
		return h.replyMsg(ctx, bot, msg, "MsgWebhookURLMissing", nil)
	}
	endpoint := h.webhookURL + config.WebhookPath

	err := bot.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:         endpoint,
		SecretToken: h.webhookSecret,
	})
	if err != nil {
		log.Printf("[Cmd:%s User:%d] setWebhook %s failed: %v", CmdSetWebhook, msg.From.ID, endpoint, err)
		if desc, ok := apiErrorDescription(err); ok {
			return h.replyMsg(ctx, bot, msg, "MsgWebhookFailed", map[string]interface{}{
				"Reason": html.EscapeString(desc),
			})
		}
		if sendErr := h.replyMsg(ctx, bot, msg, "MsgWebhookError", nil); sendErr != nil {
			log.Printf("[Cmd:%s User:%d] Failed to report webhook error: %v", CmdSetWebhook, msg.From.ID, sendErr)
		}
		return fmt.Errorf("set webhook %s: %w", endpoint, err)
	}

	log.Printf("[Cmd:%s User:%d] Webhook set to %s", CmdSetWebhook, msg.From.ID, endpoint)
	return h.replyMsg(ctx, bot, msg, "MsgWebhookSet", map[string]interface{}{
		"URL": html.EscapeString(endpoint),
	})
}
