package handlers

import (
	"context"
	"html"
	"log"
	telegoapi "tg-info-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var profilePhotoRule = TargetRule{UseReply: true, Fallback: FallbackSender}

var (
	photoLookupReplies = failureReplies{
		NotFound:  "MsgProfilePhotoNotFound",
		Forbidden: "MsgProfilePhotoNotFound",
		Rejected:  "MsgProfilePhotoNotFound",
		Transport: "MsgProfilePhotoFailed",
	}
	photoFileReplies = failureReplies{
		NotFound:  "MsgProfilePhotoRetrievalFailed",
		Forbidden: "MsgProfilePhotoRetrievalFailed",
		Rejected:  "MsgProfilePhotoRetrievalFailed",
		Transport: "MsgProfilePhotoRetrievalFailed",
	}
)

// HandleProfilePhoto sends the largest size of the target's current profile photo.
func (h *MessageHandler) HandleProfilePhoto(ctx context.Context, bot telegoapi.BotAPI, msg InboundMessage, args []string) error {
	target := ResolveTarget(msg, args, profilePhotoRule)

	userID := target.ID
	if target.Kind == TargetHandle {
		chat, err := bot.GetChat(ctx, &telego.GetChatParams{ChatID: target.ChatID()})
		if err != nil {
			return h.fail(ctx, bot, msg, CmdProfilePhoto, target, err, photoLookupReplies)
		}
		userID = chat.ID
	}

	photos, err := bot.GetUserProfilePhotos(ctx, &telego.GetUserProfilePhotosParams{
		UserID: userID,
		Limit:  1,
	})
	if err != nil {
		return h.fail(ctx, bot, msg, CmdProfilePhoto, target, err, photoLookupReplies)
	}
	if photos == nil || photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		log.Printf("[Cmd:%s User:%d Target:%s] No profile photo", CmdProfilePhoto, msg.From.ID, target)
		return h.replyMsg(ctx, bot, msg, "MsgProfilePhotoNotFound", nil)
	}

	// Sizes are ordered smallest first.
	sizes := photos.Photos[0]
	largest := sizes[len(sizes)-1]

	file, err := bot.GetFile(ctx, &telego.GetFileParams{FileID: largest.FileID})
	if err != nil {
		return h.fail(ctx, bot, msg, CmdProfilePhoto, target, err, photoFileReplies)
	}
	if file.FilePath == "" {
		log.Printf("[Cmd:%s User:%d Target:%s] File %s has no download path", CmdProfilePhoto, msg.From.ID, target, largest.FileID)
		return h.replyMsg(ctx, bot, msg, "MsgProfilePhotoRetrievalFailed", nil)
	}

	params := tu.Photo(tu.ID(msg.ChatID), tu.FileFromID(largest.FileID))
	params.Caption = h.text(msg, "MsgProfilePhotoCaption", map[string]interface{}{
		"Target": html.EscapeString(target.String()),
	})
	params.ParseMode = telego.ModeHTML
	if _, err := bot.SendPhoto(ctx, params); err != nil {
		return h.fail(ctx, bot, msg, CmdProfilePhoto, target, err, photoFileReplies)
	}
	return nil
}
