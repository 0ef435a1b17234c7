package bot

import (
	"ctchen222/tictactoe-bot/internal/game"
	"fmt"
	"math"
	"math/rand/v2"
)

// BotMoveCalculator implements the session.MoveCalculator interface.
// A nil Rand falls back to the global source; a non-nil Rand must not be
// shared between goroutines.
type BotMoveCalculator struct {
	Rand *rand.Rand
}

// CalculateNextMove places the bot's mark on board and returns the chosen cell.
func (c *BotMoveCalculator) CalculateNextMove(board *game.Board, difficulty game.Difficulty, botMark game.PlayerMark) (game.Move, error) {
	return applyOpponentMove(board, difficulty, botMark, c.intN)
}

func (c *BotMoveCalculator) intN(n int) int {
	if c.Rand == nil {
		return rand.IntN(n)
	}
	return c.Rand.IntN(n)
}

// ApplyOpponentMove places botMark in exactly one empty cell using the strategy
// for difficulty. It returns game.ErrNoLegalMove, leaving the board untouched,
// when the board is full.
func ApplyOpponentMove(board *game.Board, difficulty game.Difficulty, botMark game.PlayerMark) (game.Move, error) {
	return applyOpponentMove(board, difficulty, botMark, rand.IntN)
}

func applyOpponentMove(board *game.Board, difficulty game.Difficulty, botMark game.PlayerMark, intN func(int) int) (game.Move, error) {
	if !botMark.Valid() {
		return game.Move{}, fmt.Errorf("%w: %q", game.ErrInvalidMark, botMark)
	}

	var (
		move game.Move
		ok   bool
	)
	switch difficulty {
	case game.Easy:
		move, ok = easyMove(board, intN)
	case game.Hard:
		move, ok = hardMove(board, botMark)
	default:
		return game.Move{}, fmt.Errorf("%w: %q", game.ErrInvalidDifficulty, difficulty)
	}
	if !ok {
		return game.Move{}, game.ErrNoLegalMove
	}

	board.Place(move.Row, move.Col, botMark)
	return move, nil
}

// easyMove picks an empty cell uniformly at random.
func easyMove(board *game.Board, intN func(int) int) (game.Move, bool) {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return game.Move{}, false
	}
	return availableMoves[intN(len(availableMoves))], true
}

// hardMove runs a full minimax search. Ties go to the first cell in row-major order.
func hardMove(board *game.Board, botMark game.PlayerMark) (game.Move, bool) {
	bestScore := math.MinInt
	var bestMove game.Move
	found := false

	for r := range [3]int{} {
		for c := range [3]int{} {
			if !board.IsEmpty(r, c) {
				continue
			}
			score := try(board, r, c, botMark, func() int {
				return Score(board, botMark, false)
			})
			if score > bestScore {
				bestScore = score
				bestMove = game.Move{Row: r, Col: c}
				found = true
			}
		}
	}
	return bestMove, found
}

// Score evaluates board by exhaustive minimax. A finished line scores -1 when
// maximizing is true and +1 otherwise: the value is seen by the side about to
// move, so a line completed by the previous mover counts against it.
// When maximizing, botMark moves next; otherwise its opponent does.
func Score(board *game.Board, botMark game.PlayerMark, maximizing bool) int {
	if game.HasWon(*board) {
		if maximizing {
			return -1
		}
		return 1
	}
	if game.IsDraw(*board) {
		return 0
	}

	mark, best := botMark, math.MinInt
	if !maximizing {
		mark, best = botMark.Opponent(), math.MaxInt
	}

	for r := range [3]int{} {
		for c := range [3]int{} {
			if !board.IsEmpty(r, c) {
				continue
			}
			eval := try(board, r, c, mark, func() int {
				return Score(board, botMark, !maximizing)
			})
			if maximizing {
				best = max(best, eval)
			} else {
				best = min(best, eval)
			}
		}
	}
	return best
}

// try places mark on (row, col), runs eval and clears the cell again.
func try(board *game.Board, row, col int, mark game.PlayerMark, eval func() int) int {
	board.Place(row, col, mark)
	defer board.Clear(row, col)
	return eval()
}
