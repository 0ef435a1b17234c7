package service

import (
	"context"
	"ctchen222/tictactoe-bot/internal/api/models"
	"ctchen222/tictactoe-bot/pkg/proto"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// UpdateHandler answers one chat update.
type UpdateHandler interface {
	Handle(ctx context.Context, chatID string, upd *proto.Update) (*proto.Reply, error)
}

// ChatService defines the chat identity and update business logic.
type ChatService interface {
	GuestLogin(ctx context.Context) (*models.GuestLoginResponse, error)
	Authenticate(ctx context.Context, token string) (string, error)
	HandleUpdate(ctx context.Context, chatID string, upd *proto.Update) (*proto.Reply, error)
}

type chatService struct {
	secret  []byte
	ttl     time.Duration
	handler UpdateHandler
	now     func() time.Time
}

// NewChatService creates a new ChatService signing tokens with secret.
func NewChatService(secret string, ttl time.Duration, handler UpdateHandler) ChatService {
	return &chatService{
		secret:  []byte(secret),
		ttl:     ttl,
		handler: handler,
		now:     time.Now,
	}
}

// GuestLogin generates a chat ID and a token bound to it.
func (s *chatService) GuestLogin(ctx context.Context) (*models.GuestLoginResponse, error) {
	chatID := uuid.New().String()
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   chatID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.GuestLoginResponse{ChatID: chatID, Token: tokenString}, nil
}

// Authenticate verifies token and returns the chat ID it was issued for.
func (s *chatService) Authenticate(ctx context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// HandleUpdate forwards the update to the conversation handler.
func (s *chatService) HandleUpdate(ctx context.Context, chatID string, upd *proto.Update) (*proto.Reply, error) {
	return s.handler.Handle(ctx, chatID, upd)
}
