package game

import "errors"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Difficulty selects the strategy the bot uses for a whole game.
type Difficulty string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Difficulties
	Easy Difficulty = "easy"
	Hard Difficulty = "hard"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2
)

var (
	ErrNoLegalMove       = errors.New("no empty cell left")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrInvalidMark       = errors.New("invalid mark")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// Opponent returns the other side. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Valid reports whether m is one of the two playable marks.
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// ParseMark converts user input ("X" or "O") into a mark.
func ParseMark(s string) (PlayerMark, error) {
	m := PlayerMark(s)
	if !m.Valid() {
		return None, ErrInvalidMark
	}
	return m, nil
}

// ParseDifficulty converts user input ("easy" or "hard") into a difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Hard:
		return d, nil
	default:
		return "", ErrInvalidDifficulty
	}
}

// HasWon reports whether any row, column or diagonal holds three equal marks.
// It does not say which side owns the line.
func HasWon(b Board) bool {
	return Winner(b) != None
}

// Winner returns the mark owning the first complete line, or None.
func Winner(b Board) PlayerMark {
	for _, line := range lines {
		a := b[line[0].Row][line[0].Col]
		if a != None && a == b[line[1].Row][line[1].Col] && a == b[line[2].Row][line[2].Col] {
			return a
		}
	}
	return None
}

// IsDraw reports whether every cell is taken. A full board may also hold a
// winning line, so callers must check HasWon first.
func IsDraw(b Board) bool {
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}
