package session

import (
	"context"
	"ctchen222/tictactoe-bot/internal/game"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination=mocks/mock_move_calculator.go -package=mocks ctchen222/tictactoe-bot/internal/session MoveCalculator

// Stage is the step of the conversation a chat is in.
type Stage string

// Outcome describes the board after a player turn.
type Outcome string

const (
	StageIdle        Stage = ""
	StageChooseLevel Stage = "choose_level"
	StageChooseSide  Stage = "choose_side"
	StageInGame      Stage = "in_game"
	StageFinished    Stage = "finished"

	OutcomeContinue  Outcome = "continue"
	OutcomePlayerWon Outcome = "player_won"
	OutcomeBotWon    Outcome = "bot_won"
	OutcomeDraw      Outcome = "draw"
)

var ErrWrongStage = errors.New("action not allowed at this stage")

// MoveCalculator places the bot's mark on the board.
type MoveCalculator interface {
	CalculateNextMove(board *game.Board, difficulty game.Difficulty, botMark game.PlayerMark) (game.Move, error)
}

// Session holds one chat's game. The engine never sees it; it only gets the board.
type Session struct {
	ChatID     string
	Board      game.Board
	Difficulty game.Difficulty
	PlayerMark game.PlayerMark
	BotMark    game.PlayerMark
	Stage      Stage
	UpdatedAt  time.Time
}

// TurnResult is what happened during one player turn.
type TurnResult struct {
	Outcome Outcome
	BotMove *game.Move
}

// New returns an idle session.
func New(chatID string, now time.Time) *Session {
	return &Session{ChatID: chatID, UpdatedAt: now}
}

// Start clears any previous game and asks for a difficulty next.
func (s *Session) Start(now time.Time) {
	*s = Session{
		ChatID:    s.ChatID,
		Board:     game.NewBoard(),
		Stage:     StageChooseLevel,
		UpdatedAt: now,
	}
}

// ChooseLevel fixes the difficulty for the game.
func (s *Session) ChooseLevel(difficulty game.Difficulty, now time.Time) error {
	if s.Stage != StageChooseLevel {
		return fmt.Errorf("%w: choose level in %q", ErrWrongStage, s.Stage)
	}
	if _, err := game.ParseDifficulty(string(difficulty)); err != nil {
		return err
	}

	s.Difficulty = difficulty
	s.Stage = StageChooseSide
	s.UpdatedAt = now
	return nil
}

// ChooseSide assigns marks. X always opens, so when the player takes O the
// bot's first move is returned.
func (s *Session) ChooseSide(ctx context.Context, calc MoveCalculator, mark game.PlayerMark, now time.Time) (*game.Move, error) {
	if s.Stage != StageChooseSide {
		return nil, fmt.Errorf("%w: choose side in %q", ErrWrongStage, s.Stage)
	}
	if !mark.Valid() {
		return nil, fmt.Errorf("%w: %q", game.ErrInvalidMark, mark)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.PlayerMark = mark
	s.BotMark = mark.Opponent()
	s.UpdatedAt = now

	var opening *game.Move
	if s.BotMark == game.PlayerX {
		move, err := calc.CalculateNextMove(&s.Board, s.Difficulty, s.BotMark)
		if err != nil {
			return nil, fmt.Errorf("bot failed to make first move: %w", err)
		}
		opening = &move
	}

	s.Stage = StageInGame
	return opening, nil
}

// Play applies the player's move and, if the game goes on, the bot's answer.
// An illegal move leaves the session untouched.
func (s *Session) Play(ctx context.Context, calc MoveCalculator, row, col int, now time.Time) (*TurnResult, error) {
	if s.Stage != StageInGame {
		return nil, fmt.Errorf("%w: move in %q", ErrWrongStage, s.Stage)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.Board.ApplyPlayerMove(row, col, s.PlayerMark); err != nil {
		return nil, err
	}
	s.UpdatedAt = now

	if game.HasWon(s.Board) {
		return s.finish(OutcomePlayerWon, nil), nil
	}

	move, err := calc.CalculateNextMove(&s.Board, s.Difficulty, s.BotMark)
	if errors.Is(err, game.ErrNoLegalMove) {
		return s.finish(OutcomeDraw, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("bot failed to make turn: %w", err)
	}

	// HasWon before IsDraw: the last cell can complete a line.
	if game.HasWon(s.Board) {
		return s.finish(OutcomeBotWon, &move), nil
	}
	if game.IsDraw(s.Board) {
		return s.finish(OutcomeDraw, &move), nil
	}
	return &TurnResult{Outcome: OutcomeContinue, BotMove: &move}, nil
}

func (s *Session) finish(outcome Outcome, botMove *game.Move) *TurnResult {
	s.Stage = StageFinished
	return &TurnResult{Outcome: outcome, BotMove: botMove}
}
