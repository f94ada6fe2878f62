package telegoapi

import (
	"context"

	"github.com/mymmrac/telego"
)

// BotAPI defines the Bot API methods used by the dispatcher and the update loop.
// *telego.Bot satisfies it; tests substitute a mock.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error

	// Identity and chat lookups
	GetMe(ctx context.Context) (*telego.User, error)
	GetChat(ctx context.Context, params *telego.GetChatParams) (*telego.ChatFullInfo, error)
	GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error)
	GetChatMemberCount(ctx context.Context, params *telego.GetChatMemberCountParams) (*int, error)
	GetChatAdministrators(ctx context.Context, params *telego.GetChatAdministratorsParams) ([]telego.ChatMember, error)

	// Profile photos
	GetUserProfilePhotos(ctx context.Context, params *telego.GetUserProfilePhotosParams) (*telego.UserProfilePhotos, error)
	GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error)

	SetWebhook(ctx context.Context, params *telego.SetWebhookParams) error
}

// Compile-time check that the real client can be used directly.
var _ BotAPI = (*telego.Bot)(nil)
