package handlers

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCmd  string
		wantArgs []string
		wantOK   bool
	}{
		{"Plain", "/start", "start", []string{}, true},
		{"WithArgs", "/userinfo  12345   extra", "userinfo", []string{"12345", "extra"}, true},
		{"CaseInsensitive", "/UserInfo @alice", "userinfo", []string{"@alice"}, true},
		{"BotSuffix", "/groupinfo@InfoBot @chan", "groupinfo", []string{"@chan"}, true},
		{"NotACommand", "hello there", "", nil, false},
		{"Empty", "   ", "", nil, false},
		{"BareSlash", "/", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := parseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.wantOK {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestNewMessageHandler(t *testing.T) {
	_, err := NewMessageHandler(Deps{})
	assert.Error(t, err)

	s := setupTestHandlerSuite(t)
	assert.NotNil(t, s.handler.GetCommandHandler(CmdUserInfo))
	assert.Nil(t, s.handler.GetCommandHandler("unknowncmd"))
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownCommandIsSilent", func(t *testing.T) {
		s := setupTestHandlerSuite(t)

		err := s.handler.HandleMessage(ctx, s.bot, newTestMessage("/unknowncmd arg"))

		require.NoError(t, err)
		assert.Empty(t, s.bot.Calls, "unknown commands must not reach the Bot API")
		s.registry.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("PlainTextIsRecordedButIgnored", func(t *testing.T) {
		s := setupTestHandlerSuite(t)

		err := s.handler.HandleMessage(ctx, s.bot, newTestMessage("just chatting"))

		require.NoError(t, err)
		assert.Empty(t, s.bot.Calls)
		s.registry.AssertNumberOfCalls(t, "Record", 1)
		assert.Equal(t, 1, s.limiter.calls)
	})

	t.Run("RateLimitedSendsOneWarning", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.limiter.allow = false
		s.expectReplies()

		err := s.handler.HandleMessage(ctx, s.bot, newTestMessage("/botinfo"))

		require.NoError(t, err)
		s.bot.AssertNumberOfCalls(t, "SendMessage", 1)
		s.bot.AssertNotCalled(t, "GetMe", mock.Anything)
		assert.Equal(t, []string{expectedText("MsgRateLimited", nil)}, s.sent)
	})

	t.Run("RepliesUseBotLanguageNotSenderLanguage", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.limiter.allow = false
		s.expectReplies()
		msg := newTestMessage("/botinfo")
		msg.From.LanguageCode = "bn"

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, msg))

		assert.Equal(t, []string{"⚠️ You are sending requests too fast. Please wait a moment."}, s.sent)
	})

	t.Run("RecordsBeforeRateCheck", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.limiter.allow = false
		s.expectReplies()

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, newTestMessage("/start")))

		s.registry.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(u *telego.User) bool {
			return u.ID == testUserID
		}))
	})

	t.Run("CommandWithBotSuffix", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, newTestMessage("/Start@InfoBot")))

		require.Len(t, s.sent, 1)
		assert.Contains(t, s.sent[0], "Hello Test!")
		assert.Contains(t, s.sent[0], "/userinfo")
		assert.NotContains(t, s.sent[0], "/setwebhook")
	})

	t.Run("AdminOnlyRejectedForRegularUser", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, newTestMessage("/stats")))

		assert.Equal(t, []string{expectedText("MsgErrorRequiresAdmin", nil)}, s.sent)
		s.registry.AssertNotCalled(t, "Count")
	})

	t.Run("StatsForAdmin", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.registry.On("Count").Return(7)
		msg := newTestMessage("/stats")
		msg.From.ID = testAdminID

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, msg))

		assert.Equal(t, []string{"Known users: 7"}, s.sent)
	})
}
