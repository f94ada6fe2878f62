package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var infoRule = TargetRule{UseReply: true, Fallback: FallbackSender}

// Account age buckets by user ID. IDs are assigned roughly sequentially.
const (
	oldAccountMaxID    = 1_000_000_000
	mediumAccountMaxID = 2_000_000_000
)

// Each satisfied safety signal adds this much, up to 100.
const safetyScoreStep = 20

// accountAgeKey estimates how old an account is from its ID.
func accountAgeKey(userID int64) string {
	switch {
	case userID < oldAccountMaxID:
		return "MsgAgeOld"
	case userID < mediumAccountMaxID:
		return "MsgAgeMedium"
	default:
		return "MsgAgeNew"
	}
}

// safetySignals are the profile traits that make up the safety score.
type safetySignals struct {
	HasUsername bool
	HasPhoto    bool
	HasBio      bool
	IsPremium   bool
	OldAccount  bool
}

func (s safetySignals) score() int {
	score := 0
	for _, ok := range []bool{s.HasUsername, s.HasPhoto, s.HasBio, s.IsPremium, s.OldAccount} {
		if ok {
			score += safetyScoreStep
		}
	}
	return score
}

// HandleInfo renders an extended profile: bio, photo count, an account age estimate
// and a safety score. In groups and channels it adds the current chat, the target's
// admin status with the chat owner, and the admin list. Every lookup is best-effort
// except when the target is only known by argument and cannot be resolved at all.
func (h *MessageHandler) HandleInfo(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error {
	target := ResolveTarget(msg, args, infoRule)

	var user *telego.User
	switch target.Source {
	case SourceSender:
		user = &msg.From
	case SourceReply:
		user = msg.RepliedTo
	}

	chat, err := bot.GetChat(ctx, &telego.GetChatParams{ChatID: target.ChatID()})
	if err != nil {
		if user == nil {
			return h.fail(ctx, bot, msg, CmdInfo, target, err, failureReplies{
				NotFound:  "MsgInfoNotFound",
				Forbidden: "MsgInfoNotFound",
				Rejected:  "MsgInfoNotFound",
				Transport: "MsgErrorGeneral",
			})
		}
		log.Printf("[Cmd:%s User:%d Target:%s] Bio unavailable: %v", CmdInfo, msg.From.ID, target, err)
		chat = nil
	}

	data := map[string]interface{}{
		"Bio":      emptyField,
		"Photos":   emptyField,
		"Language": emptyField,
		"Premium":  emptyField,
		"IsBot":    emptyField,
	}
	var (
		userID  int64
		signals safetySignals
	)
	if user != nil {
		userID = user.ID
		data["Name"] = fullName(user.FirstName, user.LastName)
		data["Username"] = usernameOrDash(user.Username)
		data["Language"] = orDash(user.LanguageCode)
		data["Premium"] = h.yesNo(msg, user.IsPremium)
		data["IsBot"] = h.yesNo(msg, user.IsBot)
		signals.HasUsername = user.Username != ""
		signals.IsPremium = user.IsPremium
	} else {
		userID = chat.ID
		data["Name"] = chatTitle(chat)
		data["Username"] = usernameOrDash(chat.Username)
		signals.HasUsername = chat.Username != ""
	}
	if chat != nil {
		data["Bio"] = orDash(chat.Bio)
		signals.HasBio = strings.TrimSpace(chat.Bio) != ""
	}
	data["ID"] = userID

	photos, err := bot.GetUserProfilePhotos(ctx, &telego.GetUserProfilePhotosParams{UserID: userID, Limit: 1})
	if err != nil {
		log.Printf("[Cmd:%s User:%d Target:%s] Photo count unavailable: %v", CmdInfo, msg.From.ID, target, err)
	} else if photos != nil {
		data["Photos"] = strconv.Itoa(photos.TotalCount)
		signals.HasPhoto = photos.TotalCount > 0
	}

	userLines := []string{h.text(msg, "MsgInfoUser", data)}
	// Chat IDs are negative and say nothing about account age.
	if userID > 0 {
		ageKey := accountAgeKey(userID)
		signals.OldAccount = ageKey == "MsgAgeOld"
		userLines = append(userLines, h.text(msg, "MsgInfoAge", map[string]interface{}{
			"Age": h.text(msg, ageKey, nil),
		}))
	}
	userLines = append(userLines, h.text(msg, "MsgInfoSafetyScore", map[string]interface{}{
		"Score": signals.score(),
	}))
	sections := []string{strings.Join(userLines, "\n")}

	if msg.ChatType != telego.ChatTypePrivate {
		sections = append(sections, h.infoChatSection(ctx, bot, msg))

		admins, err := bot.GetChatAdministrators(ctx, &telego.GetChatAdministratorsParams{ChatID: tu.ID(msg.ChatID)})
		if err != nil {
			log.Printf("[Cmd:%s User:%d Chat:%d] Admin list unavailable: %v", CmdInfo, msg.From.ID, msg.ChatID, err)
			admins = nil
		}
		sections = append(sections, h.infoAdminSection(ctx, bot, msg, userID, admins))
		if len(admins) > 0 {
			lines := []string{h.text(msg, "MsgInfoAdminList", nil)}
			for i, admin := range admins {
				if i == maxListedAdmins {
					break
				}
				lines = append(lines, "• "+adminSummaryLine(admin))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}

	return h.reply(ctx, bot, msg.ChatID, strings.Join(sections, "\n\n"))
}

// infoChatSection describes the chat /info was sent in.
func (h *MessageHandler) infoChatSection(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage) string {
	data := map[string]interface{}{
		"ChatID":     msg.ChatID,
		"Type":       msg.ChatType,
		"Title":      emptyField,
		"Members":    emptyField,
		"InviteLink": emptyField,
	}

	chat, err := bot.GetChat(ctx, &telego.GetChatParams{ChatID: tu.ID(msg.ChatID)})
	if err != nil {
		log.Printf("[Cmd:%s User:%d Chat:%d] Chat details unavailable: %v", CmdInfo, msg.From.ID, msg.ChatID, err)
	} else {
		data["Title"] = chatTitle(chat)
		data["InviteLink"] = orDash(chat.InviteLink)
	}

	count, err := bot.GetChatMemberCount(ctx, &telego.GetChatMemberCountParams{ChatID: tu.ID(msg.ChatID)})
	if err != nil {
		log.Printf("[Cmd:%s User:%d Chat:%d] Member count unavailable: %v", CmdInfo, msg.From.ID, msg.ChatID, err)
	} else if count != nil {
		data["Members"] = strconv.Itoa(*count)
	}

	return h.text(msg, "MsgInfoChat", data)
}

// infoAdminSection reports whether the target administers the current chat and who owns it.
// admins may be nil when the list could not be fetched.
func (h *MessageHandler) infoAdminSection(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, userID int64, admins []telego.ChatMember) string {
	data := map[string]interface{}{
		"IsAdmin": emptyField,
		"Status":  emptyField,
		"Owner":   emptyField,
	}

	if userID > 0 {
		member, err := bot.GetChatMember(ctx, &telego.GetChatMemberParams{
			ChatID: tu.ID(msg.ChatID),
			UserID: userID,
		})
		if err != nil {
			log.Printf("[Cmd:%s User:%d Chat:%d] Chat status unavailable: %v", CmdInfo, msg.From.ID, msg.ChatID, err)
		} else {
			status := member.MemberStatus()
			data["Status"] = status
			data["IsAdmin"] = h.yesNo(msg, status == telego.MemberStatusAdministrator || status == telego.MemberStatusCreator)
		}
	}

	for _, admin := range admins {
		if admin.MemberStatus() == telego.MemberStatusCreator {
			data["Owner"] = adminSummaryLine(admin)
			break
		}
	}

	return h.text(msg, "MsgInfoAdmin", data)
}
