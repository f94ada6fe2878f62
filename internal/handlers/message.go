package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	telegoapi "tg-info-bot/pkg/telegoapi"
)

// HandleMessage records the sender and applies the rate limit before dispatching.
// Non-command text and unknown commands produce no reply.
func (h *MessageHandler) HandleMessage(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage) error {
	h.registry.Record(ctx, &msg.From)

	if !h.limiter.Allow(msg.From.ID) {
		log.Printf("[User:%d Chat:%d] Rate limit exceeded", msg.From.ID, msg.ChatID)
		return h.replyMsg(ctx, bot, msg, "MsgRateLimited", nil)
	}

	return h.Dispatch(ctx, bot, msg)
}

// Dispatch routes a command message to its handler, enforcing the admin allow-list
// before any handler runs.
func (h *MessageHandler) Dispatch(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage) error {
	command, args, ok := parseCommand(msg.Text)
	if !ok {
		return nil
	}

	cmd, found := h.lookup(command)
	if !found {
		if h.debug {
			log.Printf("[Cmd:%s User:%d] Unknown command ignored", command, msg.From.ID)
		}
		return nil
	}

	if cmd.AdminOnly && !h.adminChecker.IsAdmin(msg.From.ID) {
		log.Printf("[Cmd:%s User:%d] Rejected: user is not an admin", command, msg.From.ID)
		return h.replyMsg(ctx, bot, msg, "MsgErrorRequiresAdmin", nil)
	}

	log.Printf("[Cmd:%s User:%d Chat:%d] Handling command", command, msg.From.ID, msg.ChatID)
	if err := cmd.Handler(ctx, bot, msg, args); err != nil {
		return fmt.Errorf("command /%s: %w", command, err)
	}
	return nil
}

func (h *MessageHandler) lookup(command string) (Command, bool) {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd, true
		}
	}
	return Command{}, false
}

// parseCommand splits "/name@bot arg1 arg2" into the lowercased name without
// the leading slash or bot suffix and the remaining whitespace-separated tokens.
func parseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}
	return name, fields[1:], true
}
