package handlers

import (
	"context"
	"html"
	"log"
	"strings"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var (
	userInfoRule = TargetRule{UseReply: true, Fallback: FallbackUsage}
	adminsRule   = TargetRule{Fallback: FallbackChat}
)

// HandleUserInfo looks up a user by reply, numeric ID or handle.
// Numeric IDs are resolved as members of the current chat; handles go through a chat lookup.
func (h *MessageHandler) HandleUserInfo(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error {
	target := ResolveTarget(msg, args, userInfoRule)

	switch target.Kind {
	case TargetID:
		member, err := bot.GetChatMember(ctx, &telego.GetChatMemberParams{
			ChatID: tu.ID(msg.ChatID),
			UserID: target.ID,
		})
		if err != nil {
			return h.fail(ctx, bot, msg, CmdUserInfo, target, err, failureReplies{
				NotFound:  "MsgUserInfoNotMember",
				Forbidden: "MsgUserInfoNoAccess",
				Rejected:  "MsgUserInfoNoAccess",
				Transport: "MsgUserInfoFailed",
			})
		}
		user := member.MemberUser()
		return h.replyMsg(ctx, bot, msg, "MsgUserInfoMember", map[string]interface{}{
			"ID":       user.ID,
			"Name":     fullName(user.FirstName, user.LastName),
			"Username": usernameOrDash(user.Username),
			"Status":   member.MemberStatus(),
		})

	case TargetHandle:
		chat, err := bot.GetChat(ctx, &telego.GetChatParams{ChatID: target.ChatID()})
		if err != nil {
			return h.fail(ctx, bot, msg, CmdUserInfo, target, err, failureReplies{
				NotFound:  "MsgUserInfoNotFound",
				Forbidden: "MsgUserInfoNoAccess",
				Rejected:  "MsgUserInfoNotFound",
				Transport: "MsgUserInfoFailed",
			})
		}
		return h.replyMsg(ctx, bot, msg, "MsgUserInfoChat", map[string]interface{}{
			"ID":       chat.ID,
			"Title":    chatTitle(chat),
			"Type":     chat.Type,
			"Username": usernameOrDash(chat.Username),
		})

	default:
		return h.replyMsg(ctx, bot, msg, "MsgUserInfoUsage", nil)
	}
}

// HandleChatInfo returns the handler for /groupinfo and /channelinfo.
// The chat is required as an argument; member count and admin list are best-effort sections.
func (h *MessageHandler) HandleChatInfo(command string) CommandFunc {
	return func(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error {
		if len(args) == 0 {
			return h.replyMsg(ctx, bot, msg, "MsgChatInfoUsage", map[string]interface{}{
				"Command": "/" + command,
			})
		}
		target := ParseTargetArg(args[0])

		chat, err := bot.GetChat(ctx, &telego.GetChatParams{ChatID: target.ChatID()})
		if err != nil {
			return h.fail(ctx, bot, msg, command, target, err, failureReplies{
				NotFound:  "MsgChatNotFound",
				Forbidden: "MsgChatNotFound",
				Rejected:  "MsgChatNotFound",
				Transport: "MsgChatInfoFailed",
			})
		}

		sections := []string{h.text(msg, "MsgChatInfo", map[string]interface{}{
			"ID":       chat.ID,
			"Title":    chatTitle(chat),
			"Type":     chat.Type,
			"Username": usernameOrDash(chat.Username),
		})}
		if chat.Description != "" {
			sections = append(sections, h.text(msg, "MsgChatInfoDescription", map[string]interface{}{
				"Description": html.EscapeString(chat.Description),
			}))
		}

		count, err := bot.GetChatMemberCount(ctx, &telego.GetChatMemberCountParams{ChatID: tu.ID(chat.ID)})
		if err != nil {
			log.Printf("[Cmd:%s User:%d Target:%s] Member count unavailable: %v", command, msg.From.ID, target, err)
		} else if count != nil {
			sections = append(sections, h.text(msg, "MsgChatInfoMembers", map[string]interface{}{
				"Count": *count,
			}))
		}

		admins, err := bot.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{ChatID: tu.ID(chat.ID)})
		if err != nil {
			log.Printf("[Cmd:%s User:%d Target:%s] Admin list unavailable: %v", command, msg.From.ID, target, err)
		} else if len(admins) > 0 {
			lines := []string{h.text(msg, "MsgChatInfoAdmins", nil)}
			for i, admin := range admins {
				if i == maxListedAdmins {
					break
				}
				lines = append(lines, "• "+adminSummaryLine(admin))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}

		return h.reply(ctx, bot, msg.ChatID, strings.Join(sections, "\n"))
	}
}

// HandleAdmins lists the administrators of the given chat, or of the current chat.
func (h *MessageHandler) HandleAdmins(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error {
	target := ResolveTarget(msg, args, adminsRule)

	admins, err := bot.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{ChatID: target.ChatID()})
	if err != nil {
		return h.fail(ctx, bot, msg, CmdAdmins, target, err, failureReplies{
			NotFound:  "MsgAdminsNotFound",
			Forbidden: "MsgAdminsNotFound",
			Rejected:  "MsgAdminsNotFound",
			Transport: "MsgAdminsFailed",
		})
	}

	lines := []string{h.text(msg, "MsgAdminsHeader", map[string]interface{}{
		"Target": html.EscapeString(target.String()),
	})}
	for _, admin := range admins {
		lines = append(lines, adminLine(admin))
	}
	return h.reply(ctx, bot, msg.ChatID, strings.Join(lines, "\n"))
}
