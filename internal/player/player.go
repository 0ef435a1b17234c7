package player

import (
	"context"
	"ctchen222/tictactoe-bot/internal/chat"
	"ctchen222/tictactoe-bot/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("player")

const (
	errMalformedUpdate = "malformed update"
	errInternal        = "something went wrong, send /start to try again"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// UpdateHandler answers one chat update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, chatID string, upd *proto.Update) (*proto.Reply, error)
}

// Player is one chat client connected over a websocket.
type Player struct {
	ID   string
	Conn Connection
}

func NewPlayer(id string, conn Connection) *Player {
	return &Player{ID: id, Conn: conn}
}

// ReadPump answers every update read from the connection until it closes.
func (p *Player) ReadPump(ctx context.Context, h UpdateHandler) {
	ctx, span := tracer.Start(ctx, "player.ReadPump", trace.WithAttributes(
		attribute.String("chat.id", p.ID),
	))
	defer span.End()
	defer p.Conn.Close()

	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "unexpected websocket close", "chat.id", p.ID, "error", err)
				span.RecordError(err)
			}
			slog.DebugContext(ctx, "Player disconnected", "chat.id", p.ID)
			return
		}

		var upd proto.Update
		if err := json.Unmarshal(data, &upd); err != nil {
			slog.WarnContext(ctx, "failed to decode update", "chat.id", p.ID, "error", err)
			p.send(ctx, &proto.Reply{ChatID: p.ID, Error: errMalformedUpdate})
			continue
		}

		reply, err := h.HandleUpdate(ctx, p.ID, &upd)
		if errors.Is(err, chat.ErrInvalidUpdate) {
			p.send(ctx, &proto.Reply{ChatID: p.ID, ReplyTo: upd.ID, Error: err.Error()})
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle update")
			p.send(ctx, &proto.Reply{ChatID: p.ID, ReplyTo: upd.ID, Error: errInternal})
			continue
		}
		p.send(ctx, reply)
	}
}

func (p *Player) send(ctx context.Context, reply *proto.Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling reply", "chat.id", p.ID, "error", err)
		return
	}
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing reply to player", "chat.id", p.ID, "error", err)
	}
}
