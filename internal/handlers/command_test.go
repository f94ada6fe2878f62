package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	ta "github.com/mymmrac/telego/telegoapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommands(t *testing.T) {
	s := setupTestHandlerSuite(t)
	var registered []telego.BotCommand
	s.bot.On("SetMyCommands", mock.Anything, mock.AnythingOfType("*telego.SetMyCommandsParams")).
		Run(func(args mock.Arguments) {
			registered = args.Get(1).(*telego.SetMyCommandsParams).Commands
		}).
		Return(nil)

	require.NoError(t, s.handler.RegisterCommands(context.Background(), s.bot))

	var names []string
	for _, c := range registered {
		names = append(names, c.Command)
		assert.NotEmpty(t, c.Description)
	}
	assert.Contains(t, names, CmdUserInfo)
	assert.Contains(t, names, CmdInfo)
	assert.NotContains(t, names, CmdSetWebhook)
	assert.NotContains(t, names, CmdStats)
}

func TestHandleMe(t *testing.T) {
	s := setupTestHandlerSuite(t)
	s.expectReplies()

	require.NoError(t, s.handler.HandleMe(context.Background(), s.bot, newTestMessage("/me"), nil))

	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0], "<code>98765</code>")
	assert.Contains(t, s.sent[0], "Test Userov")
	assert.Contains(t, s.sent[0], "@testuser")
	assert.Len(t, s.bot.Calls, 1)
}

func TestHandleBotInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("GetMe", mock.Anything).Return(&telego.User{ID: 42, FirstName: "Info", Username: "info_bot", IsBot: true}, nil)

		require.NoError(t, s.handler.HandleBotInfo(ctx, s.bot, newTestMessage("/botinfo"), nil))

		require.Len(t, s.sent, 1)
		assert.Contains(t, s.sent[0], "@info_bot")
	})

	t.Run("Rejected", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("GetMe", mock.Anything).Return(nil, &ta.Error{ErrorCode: 401, Description: "Unauthorized"})

		require.NoError(t, s.handler.HandleBotInfo(ctx, s.bot, newTestMessage("/botinfo"), nil))

		assert.Equal(t, []string{expectedText("MsgBotInfoNotFound", nil)}, s.sent)
	})

	t.Run("TransportFailure", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("GetMe", mock.Anything).Return(nil, errors.New("connection reset"))

		err := s.handler.HandleBotInfo(ctx, s.bot, newTestMessage("/botinfo"), nil)

		assert.ErrorContains(t, err, "connection reset")
		assert.Equal(t, []string{expectedText("MsgErrorGeneral", nil)}, s.sent)
	})
}

func TestHandleWhoAmI(t *testing.T) {
	ctx := context.Background()

	t.Run("Status", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("GetChatMember", mock.Anything, mock.MatchedBy(func(p *telego.GetChatMemberParams) bool {
			return p.ChatID.ID == testChatID && p.UserID == testUserID
		})).Return(&telego.ChatMemberMember{Status: telego.MemberStatusMember, User: telego.User{ID: testUserID}}, nil)

		require.NoError(t, s.handler.HandleWhoAmI(ctx, s.bot, newTestMessage("/whoami"), nil))

		assert.Equal(t, []string{"You are in this chat: member"}, s.sent)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("GetChatMember", mock.Anything, mock.Anything).
			Return(nil, &ta.Error{ErrorCode: 400, Description: "Bad Request: user not found"})

		require.NoError(t, s.handler.HandleWhoAmI(ctx, s.bot, newTestMessage("/whoami"), nil))

		assert.Equal(t, []string{expectedText("MsgWhoAmINotFound", nil)}, s.sent)
	})
}

func TestHandleSetWebhook(t *testing.T) {
	ctx := context.Background()
	adminMessage := func() InboundMessage {
		msg := newTestMessage("/setwebhook")
		msg.From.ID = testAdminID
		return msg
	}

	t.Run("NonAdminMakesNoRemoteCall", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, newTestMessage("/setwebhook")))

		s.bot.AssertNotCalled(t, "SetWebhook", mock.Anything, mock.Anything)
		s.bot.AssertNumberOfCalls(t, "SendMessage", 1)
		assert.Equal(t, []string{expectedText("MsgErrorRequiresAdmin", nil)}, s.sent)
	})

	t.Run("AdminRegistersCallbackPath", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("SetWebhook", mock.Anything, mock.AnythingOfType("*telego.SetWebhookParams")).Return(nil)

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, adminMessage()))

		s.bot.AssertNumberOfCalls(t, "SetWebhook", 1)
		params := s.bot.Calls[0].Arguments.Get(1).(*telego.SetWebhookParams)
		assert.Equal(t, testWebhook+"/webhook", params.URL)
		assert.Equal(t, testSecret, params.SecretToken)
		assert.Equal(t, []string{"Webhook set: " + testWebhook + "/webhook"}, s.sent)
	})

	t.Run("EchoesAPIError", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("SetWebhook", mock.Anything, mock.Anything).
			Return(&ta.Error{ErrorCode: 400, Description: "Bad Request: bad webhook: HTTPS url must be provided"})

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, adminMessage()))

		require.Len(t, s.sent, 1)
		assert.Contains(t, s.sent[0], "HTTPS url must be provided")
	})

	t.Run("TransportFailure", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.bot.On("SetWebhook", mock.Anything, mock.Anything).Return(errors.New("dial tcp: timeout"))

		err := s.handler.HandleMessage(ctx, s.bot, adminMessage())

		assert.ErrorContains(t, err, "dial tcp: timeout")
		assert.Equal(t, []string{expectedText("MsgWebhookError", nil)}, s.sent)
	})

	t.Run("MissingURL", func(t *testing.T) {
		s := setupTestHandlerSuite(t)
		s.expectReplies()
		s.handler.webhookURL = ""

		require.NoError(t, s.handler.HandleMessage(ctx, s.bot, adminMessage()))

		s.bot.AssertNotCalled(t, "SetWebhook", mock.Anything, mock.Anything)
		assert.Equal(t, []string{expectedText("MsgWebhookURLMissing", nil)}, s.sent)
	})
}
