package chat

import (
	"context"
	"ctchen222/tictactoe-bot/internal/game"
	"ctchen222/tictactoe-bot/internal/session"
	"ctchen222/tictactoe-bot/internal/telemetry"
	"ctchen222/tictactoe-bot/internal/validator"
	"ctchen222/tictactoe-bot/pkg/proto"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chat")

var ErrInvalidUpdate = errors.New("invalid update")

// SessionStore gives serialised access to a chat's session.
type SessionStore interface {
	WithSession(ctx context.Context, chatID string, fn func(s *session.Session) error) error
	Delete(ctx context.Context, chatID string)
}

// Handler turns chat updates into session operations and renders replies.
type Handler struct {
	store   SessionStore
	calc    session.MoveCalculator
	metrics *telemetry.GameMetrics
	now     func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(store SessionStore, calc session.MoveCalculator, metrics *telemetry.GameMetrics) *Handler {
	return &Handler{
		store:   store,
		calc:    calc,
		metrics: metrics,
		now:     time.Now,
	}
}

// Handle processes one update for chatID and returns the reply to send.
func (h *Handler) Handle(ctx context.Context, chatID string, upd *proto.Update) (*proto.Reply, error) {
	ctx, span := tracer.Start(ctx, "chat.Handle", trace.WithAttributes(
		attribute.String("chat.id", chatID),
		attribute.String("update.type", upd.Type),
	))
	defer span.End()

	if err := validator.GetValidator().Struct(upd); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid update")
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	var reply *proto.Reply
	switch {
	case upd.Type == proto.UpdateCommand && (upd.Command == "/end" || upd.Command == "/cancel"):
		h.store.Delete(ctx, chatID)
		slog.InfoContext(ctx, "Conversation ended by user", "chat.id", chatID)
		reply = &proto.Reply{Text: textGameOver, Finished: true}

	case upd.Type == proto.UpdateCommand && upd.Command != "/start":
		reply = &proto.Reply{Text: textHelp}

	default:
		err := h.store.WithSession(ctx, chatID, func(s *session.Session) error {
			var err error
			reply, err = h.dispatch(ctx, s, upd)
			return err
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to handle update", "chat.id", chatID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle update")
			return nil, err
		}
	}

	reply.ChatID = chatID
	reply.ReplyTo = upd.ID
	return reply, nil
}

func (h *Handler) dispatch(ctx context.Context, s *session.Session, upd *proto.Update) (*proto.Reply, error) {
	if upd.Type == proto.UpdateCommand {
		s.Start(h.now())
		return &proto.Reply{Text: textChooseLevel, Keyboard: levelKeyboard()}, nil
	}

	switch s.Stage {
	case session.StageChooseLevel:
		return h.handleLevel(ctx, s, upd.Data)
	case session.StageChooseSide:
		return h.handleSide(ctx, s, upd.Data)
	case session.StageInGame:
		return h.handleMove(ctx, s, upd.Data)
	default:
		return &proto.Reply{Text: textSendStart}, nil
	}
}

func (h *Handler) handleLevel(ctx context.Context, s *session.Session, data string) (*proto.Reply, error) {
	difficulty, err := game.ParseDifficulty(data)
	if err != nil {
		return &proto.Reply{Text: textChooseLevel, Keyboard: levelKeyboard()}, nil
	}
	if err := s.ChooseLevel(difficulty, h.now()); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Level chosen", "chat.id", s.ChatID, "difficulty", difficulty)
	return &proto.Reply{Text: textChooseSide, Keyboard: sideKeyboard()}, nil
}

func (h *Handler) handleSide(ctx context.Context, s *session.Session, data string) (*proto.Reply, error) {
	ctx, span := tracer.Start(ctx, "chat.handleSide", trace.WithAttributes(
		attribute.String("chat.id", s.ChatID),
		attribute.String("side", data),
	))
	defer span.End()

	mark, err := game.ParseMark(data)
	if err != nil {
		return &proto.Reply{Text: textChooseSide, Keyboard: sideKeyboard()}, nil
	}

	opening, err := s.ChooseSide(ctx, h.timed(ctx), mark, h.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start game")
		return nil, err
	}
	if opening != nil {
		span.SetAttributes(attribute.Int("bot.row", opening.Row), attribute.Int("bot.col", opening.Col))
	}

	h.metrics.GameStarted(ctx, string(s.Difficulty))
	slog.InfoContext(ctx, "Game started",
		"chat.id", s.ChatID,
		"difficulty", s.Difficulty,
		"side", s.PlayerMark,
		"board", s.Board,
	)

	return &proto.Reply{
		Text:     textGameStarted(s.Difficulty, s.PlayerMark),
		Keyboard: boardKeyboard(s.Board),
		Board:    s.Board.BoardAsStrings(),
	}, nil
}

func (h *Handler) handleMove(ctx context.Context, s *session.Session, data string) (*proto.Reply, error) {
	ctx, span := tracer.Start(ctx, "chat.handleMove", trace.WithAttributes(
		attribute.String("chat.id", s.ChatID),
		attribute.String("move.data", data),
	))
	defer span.End()

	rejected := &proto.Reply{
		Text:     textCellTaken,
		Keyboard: boardKeyboard(s.Board),
		Board:    s.Board.BoardAsStrings(),
	}

	row, col, err := parseCell(data)
	if err != nil {
		slog.WarnContext(ctx, "unparsable cell from player", "chat.id", s.ChatID, "data", data)
		span.SetAttributes(attribute.Bool("move.valid", false))
		return rejected, nil
	}

	res, err := s.Play(ctx, h.timed(ctx), row, col, h.now())
	if errors.Is(err, game.ErrCellOccupied) || errors.Is(err, game.ErrInvalidCoordinate) {
		slog.WarnContext(ctx, "invalid move from player", "chat.id", s.ChatID, "row", row, "col", col, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		return rejected, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to play move")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("move.valid", true), attribute.String("outcome", string(res.Outcome)))

	reply := &proto.Reply{
		Keyboard: boardKeyboard(s.Board),
		Board:    s.Board.BoardAsStrings(),
	}

	switch res.Outcome {
	case session.OutcomePlayerWon:
		reply.Text = textPlayerWon(s.PlayerMark)
	case session.OutcomeBotWon:
		reply.Text = textBotWon(s.BotMark)
	case session.OutcomeDraw:
		reply.Text = textDraw
	default:
		reply.Text = textYourTurn(s.PlayerMark)
		return reply, nil
	}

	reply.Finished = true
	h.metrics.GameFinished(ctx, string(s.Difficulty), string(res.Outcome))
	slog.InfoContext(ctx, "Game finished", "chat.id", s.ChatID, "outcome", res.Outcome, "board", s.Board)
	return reply, nil
}

func (h *Handler) timed(ctx context.Context) session.MoveCalculator {
	return &timedCalculator{ctx: ctx, inner: h.calc, metrics: h.metrics}
}

// timedCalculator records how long the wrapped calculator takes.
type timedCalculator struct {
	ctx     context.Context
	inner   session.MoveCalculator
	metrics *telemetry.GameMetrics
}

func (t *timedCalculator) CalculateNextMove(board *game.Board, difficulty game.Difficulty, botMark game.PlayerMark) (game.Move, error) {
	start := time.Now()
	move, err := t.inner.CalculateNextMove(board, difficulty, botMark)
	t.metrics.BotMoveObserved(t.ctx, string(difficulty), time.Since(start))
	return move, err
}
