package handlers

import (
	"context"
	"fmt"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// InboundMessage is the part of a Telegram message the dispatcher works with.
// It is built once per delivery and never persisted.
type InboundMessage struct {
	MessageID int
	ChatID    int64
	ChatType  string
	From      telego.User
	Text      string
	// RepliedTo is the sender of the message being replied to, if any.
	RepliedTo *telego.User
}

// NewInboundMessage extracts an InboundMessage from a Telegram message.
// It returns false for messages without a sender (e.g. channel posts).
func NewInboundMessage(message telego.Message) (InboundMessage, bool) {
	if message.From == nil {
		return InboundMessage{}, false
	}
	msg := InboundMessage{
		MessageID: message.MessageID,
		ChatID:    message.Chat.ID,
		ChatType:  message.Chat.Type,
		From:      *message.From,
		Text:      message.Text,
	}
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		replied := *message.ReplyToMessage.From
		msg.RepliedTo = &replied
	}
	return msg, true
}

// CommandFunc executes one command. args are the whitespace-separated tokens after the command.
type CommandFunc func(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error

// Command represents a bot command, mapping the command string to its description and handler function.
type Command struct {
	Command     string      // The command string (e.g., "start").
	Description string      // Localization key of the description shown in the command menu.
	AdminOnly   bool        // Hidden from the public command list.
	Handler     CommandFunc // The function to execute when the command is received.
}

// Deps holds the collaborators of a MessageHandler.
type Deps struct {
	Registry     UserRegistry
	Limiter      RateLimiter
	AdminChecker AdminChecker
	// WebhookURL is the externally reachable base URL; the callback path is appended to it.
	WebhookURL    string
	WebhookSecret string
	Debug         bool
}

// MessageHandler records users, applies the rate limit and dispatches commands.
type MessageHandler struct {
	registry      UserRegistry
	limiter       RateLimiter
	adminChecker  AdminChecker
	webhookURL    string
	webhookSecret string
	debug         bool

	// commands holds the list of available bot commands.
	commands []Command
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
func NewMessageHandler(deps Deps) (*MessageHandler, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("user registry cannot be nil")
	}
	if deps.Limiter == nil {
		return nil, fmt.Errorf("rate limiter cannot be nil")
	}
	if deps.AdminChecker == nil {
		return nil, fmt.Errorf("admin checker cannot be nil")
	}
	h := &MessageHandler{
		registry:      deps.Registry,
		limiter:       deps.Limiter,
		adminChecker:  deps.AdminChecker,
		webhookURL:    deps.WebhookURL,
		webhookSecret: deps.WebhookSecret,
		debug:         deps.Debug,
	}
	h.commands = []Command{
		{Command: CmdStart, Description: "CmdStartDesc", Handler: h.HandleStart},
		{Command: CmdMe, Description: "CmdMeDesc", Handler: h.HandleMe},
		{Command: CmdBotInfo, Description: "CmdBotInfoDesc", Handler: h.HandleBotInfo},
		{Command: CmdUserInfo, Description: "CmdUserInfoDesc", Handler: h.HandleUserInfo},
		{Command: CmdGroupInfo, Description: "CmdGroupInfoDesc", Handler: h.HandleChatInfo(CmdGroupInfo)},
		{Command: CmdChannelInfo, Description: "CmdChannelInfoDesc", Handler: h.HandleChatInfo(CmdChannelInfo)},
		{Command: CmdAdmins, Description: "CmdAdminsDesc", Handler: h.HandleAdmins},
		{Command: CmdProfilePhoto, Description: "CmdProfilePhotoDesc", Handler: h.HandleProfilePhoto},
		{Command: CmdWhoAmI, Description: "CmdWhoAmIDesc", Handler: h.HandleWhoAmI},
		{Command: CmdInfo, Description: "CmdInfoDesc", Handler: h.HandleInfo},
		{Command: CmdSetWebhook, Description: "CmdSetWebhookDesc", AdminOnly: true, Handler: h.HandleSetWebhook},
		{Command: CmdStats, Description: "CmdStatsDesc", AdminOnly: true, Handler: h.HandleStats},
	}
	return h, nil
}

// GetCommandHandler retrieves the handler function associated with a specific command string (e.g., "start").
// It returns nil if the command is not found.
func (h *MessageHandler) GetCommandHandler(command string) CommandFunc {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}

// Commands returns the command table.
func (h *MessageHandler) Commands() []Command {
	return h.commands
}
