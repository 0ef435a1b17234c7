package service

import (
	"context"
	"ctchen222/tictactoe-bot/pkg/proto"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) Handle(_ context.Context, chatID string, upd *proto.Update) (*proto.Reply, error) {
	return &proto.Reply{ChatID: chatID, Text: upd.Command}, nil
}

func TestChatService_Tokens(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	newService := func(secret string, now time.Time) *chatService {
		s := NewChatService(secret, time.Hour, echoHandler{}).(*chatService)
		s.now = func() time.Time { return now }
		return s
	}

	t.Run("Guest token authenticates as its chat", func(t *testing.T) {
		s := newService("secret", issued)

		login, err := s.GuestLogin(ctx)
		require.NoError(t, err)

		chatID, err := s.Authenticate(ctx, login.Token)
		require.NoError(t, err)
		assert.Equal(t, login.ChatID, chatID)
	})

	t.Run("Every guest gets a new chat", func(t *testing.T) {
		s := newService("secret", issued)

		first, err := s.GuestLogin(ctx)
		require.NoError(t, err)
		second, err := s.GuestLogin(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first.ChatID, second.ChatID)
	})

	t.Run("Expired token", func(t *testing.T) {
		login, err := newService("secret", issued).GuestLogin(ctx)
		require.NoError(t, err)

		_, err = newService("secret", issued.Add(2*time.Hour)).Authenticate(ctx, login.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other secret", func(t *testing.T) {
		login, err := newService("secret", issued).GuestLogin(ctx)
		require.NoError(t, err)

		_, err = newService("other", issued).Authenticate(ctx, login.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing subject", func(t *testing.T) {
		s := newService("secret", issued)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = s.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing expiry", func(t *testing.T) {
		s := newService("secret", issued)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "chat",
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = s.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := newService("secret", issued).Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestChatService_HandleUpdate(t *testing.T) {
	s := NewChatService("secret", time.Hour, echoHandler{})

	reply, err := s.HandleUpdate(context.Background(), "chat", &proto.Update{Type: proto.UpdateCommand, Command: "/start"})
	require.NoError(t, err)
	assert.Equal(t, "chat", reply.ChatID)
	assert.Equal(t, "/start", reply.Text)
}
