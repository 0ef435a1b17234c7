package session

import (
	"context"
	"ctchen222/tictactoe-bot/internal/bot"
	"ctchen222/tictactoe-bot/internal/game"
	"ctchen222/tictactoe-bot/internal/session/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// placeAt returns a calculator stub that puts the bot mark on (row, col).
func placeAt(row, col int) func(*game.Board, game.Difficulty, game.PlayerMark) (game.Move, error) {
	return func(b *game.Board, _ game.Difficulty, mark game.PlayerMark) (game.Move, error) {
		b.Place(row, col, mark)
		return game.Move{Row: row, Col: col}, nil
	}
}

func inGame(board game.Board, player game.PlayerMark) *Session {
	return &Session{
		ChatID:     "chat",
		Board:      board,
		Difficulty: game.Easy,
		PlayerMark: player,
		BotMark:    player.Opponent(),
		Stage:      StageInGame,
	}
}

func TestSession_Flow(t *testing.T) {
	t.Run("Player as X moves first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)

		// Given: a started session with level chosen
		s := New("chat", now)
		s.Start(now)
		require.Equal(t, StageChooseLevel, s.Stage)
		require.NoError(t, s.ChooseLevel(game.Easy, now))
		require.Equal(t, StageChooseSide, s.Stage)

		// When: the player picks X
		opening, err := s.ChooseSide(context.Background(), calc, X, now)

		// Then: the bot does not move and the game starts
		require.NoError(t, err)
		assert.Nil(t, opening)
		assert.Equal(t, StageInGame, s.Stage)
		assert.Equal(t, O, s.BotMark)
		assert.Equal(t, game.NewBoard(), s.Board)
	})

	t.Run("Player as O lets the bot open", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), game.Hard, X).DoAndReturn(placeAt(1, 1))

		s := New("chat", now)
		s.Start(now)
		require.NoError(t, s.ChooseLevel(game.Hard, now))

		opening, err := s.ChooseSide(context.Background(), calc, O, now)

		require.NoError(t, err)
		require.NotNil(t, opening)
		assert.Equal(t, game.Move{Row: 1, Col: 1}, *opening)
		assert.Equal(t, X, s.Board[1][1])
		assert.Equal(t, StageInGame, s.Stage)
	})

	t.Run("Start resets a finished game", func(t *testing.T) {
		s := inGame(game.Board{{X, X, X}, {O, O, E}, {E, E, E}}, X)
		s.Stage = StageFinished

		s.Start(now)

		assert.Equal(t, StageChooseLevel, s.Stage)
		assert.Equal(t, game.NewBoard(), s.Board)
		assert.Equal(t, game.None, s.PlayerMark)
		assert.Equal(t, "chat", s.ChatID)
	})
}

func TestSession_WrongStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := mocks.NewMockMoveCalculator(ctrl)
	s := New("chat", now)

	require.ErrorIs(t, s.ChooseLevel(game.Easy, now), ErrWrongStage)
	_, err := s.ChooseSide(context.Background(), calc, X, now)
	require.ErrorIs(t, err, ErrWrongStage)
	_, err = s.Play(context.Background(), calc, 0, 0, now)
	require.ErrorIs(t, err, ErrWrongStage)

	s.Start(now)
	require.ErrorIs(t, s.ChooseLevel("medium", now), game.ErrInvalidDifficulty)
	require.Equal(t, StageChooseLevel, s.Stage)
}

func TestSession_Play(t *testing.T) {
	t.Run("Continue after both moves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), game.Easy, O).DoAndReturn(placeAt(2, 2))

		s := inGame(game.NewBoard(), X)
		res, err := s.Play(context.Background(), calc, 0, 0, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomeContinue, res.Outcome)
		assert.Equal(t, &game.Move{Row: 2, Col: 2}, res.BotMove)
		assert.Equal(t, StageInGame, s.Stage)
		assert.Equal(t, X, s.Board[0][0])
		assert.Equal(t, O, s.Board[2][2])
	})

	t.Run("Player wins without a bot move", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)

		s := inGame(game.Board{{X, X, E}, {O, O, E}, {E, E, E}}, X)
		res, err := s.Play(context.Background(), calc, 0, 2, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomePlayerWon, res.Outcome)
		assert.Nil(t, res.BotMove)
		assert.Equal(t, StageFinished, s.Stage)
	})

	t.Run("Winning move on the last cell is a win, not a draw", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)

		s := inGame(game.Board{{X, O, X}, {O, X, O}, {O, X, E}}, X)
		res, err := s.Play(context.Background(), calc, 2, 2, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomePlayerWon, res.Outcome)
	})

	t.Run("Bot wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any(), O).DoAndReturn(placeAt(1, 2))

		s := inGame(game.Board{{X, E, X}, {O, O, E}, {X, E, E}}, X)
		res, err := s.Play(context.Background(), calc, 2, 2, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomeBotWon, res.Outcome)
		assert.Equal(t, StageFinished, s.Stage)
	})

	t.Run("Bot fills the last cell with a line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any(), O).DoAndReturn(placeAt(2, 2))

		s := inGame(game.Board{{O, X, X}, {X, O, E}, {X, O, E}}, X)
		res, err := s.Play(context.Background(), calc, 1, 2, now)

		require.NoError(t, err)
		assert.True(t, game.IsDraw(s.Board))
		assert.Equal(t, OutcomeBotWon, res.Outcome)
	})

	t.Run("Player fills the last cell", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any(), O).Return(game.Move{}, game.ErrNoLegalMove)

		s := inGame(game.Board{{X, O, X}, {X, O, O}, {O, X, E}}, X)
		res, err := s.Play(context.Background(), calc, 2, 2, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomeDraw, res.Outcome)
		assert.Nil(t, res.BotMove)
	})

	t.Run("Bot fills the last cell without a line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)
		calc.EXPECT().CalculateNextMove(gomock.Any(), gomock.Any(), O).DoAndReturn(placeAt(2, 2))

		s := inGame(game.Board{{X, O, X}, {X, O, E}, {O, X, E}}, X)
		res, err := s.Play(context.Background(), calc, 1, 2, now)

		require.NoError(t, err)
		assert.Equal(t, OutcomeDraw, res.Outcome)
		assert.Equal(t, StageFinished, s.Stage)
	})

	t.Run("Illegal move leaves the session untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockMoveCalculator(ctrl)

		s := inGame(game.Board{{X, E, E}, {E, O, E}, {E, E, E}}, X)
		before := *s

		_, err := s.Play(context.Background(), calc, 1, 1, now)
		require.ErrorIs(t, err, game.ErrCellOccupied)
		_, err = s.Play(context.Background(), calc, 3, 0, now)
		require.ErrorIs(t, err, game.ErrInvalidCoordinate)

		assert.Equal(t, before, *s)
	})
}

func TestSession_PlayWithRealBot(t *testing.T) {
	// Given: a hard bot playing O against an obvious threat
	s := inGame(game.Board{{X, E, E}, {E, E, E}, {O, E, E}}, X)
	s.Difficulty = game.Hard

	// When: X takes the centre
	res, err := s.Play(context.Background(), &bot.BotMoveCalculator{}, 1, 1, now)

	// Then: the bot blocks the diagonal
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, res.Outcome)
	assert.Equal(t, &game.Move{Row: 2, Col: 2}, res.BotMove)
}
