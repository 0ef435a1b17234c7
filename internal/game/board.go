package game

import "fmt"

// Move is a target cell on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the 3x3 grid, indexed [row][col].
type Board [3][3]PlayerMark

// lines lists the 3 rows, 3 columns and 2 diagonals.
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// InBounds reports whether (row, col) addresses a cell.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// IsEmpty reports whether the cell holds no mark. The coordinates must be in bounds.
func (b *Board) IsEmpty(row, col int) bool {
	return b[row][col] == None
}

// Place puts mark on the cell without any check; the cell must be empty.
func (b *Board) Place(row, col int, mark PlayerMark) {
	b[row][col] = mark
}

// Clear resets a cell. Only search backtracking uses it.
func (b *Board) Clear(row, col int) {
	b[row][col] = None
}

// IsLegalMove reports whether (row, col) is in bounds and empty.
func (b *Board) IsLegalMove(row, col int) bool {
	return InBounds(row, col) && b.IsEmpty(row, col)
}

// ApplyPlayerMove is the checked form of Place used for human input.
func (b *Board) ApplyPlayerMove(row, col int, mark PlayerMark) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	if !b.IsEmpty(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, row, col)
	}
	if !mark.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
	b.Place(row, col, mark)
	return nil
}

// EmptyCells lists free cells in row-major order.
func (b *Board) EmptyCells() []Move {
	moves := make([]Move, 0, 9)
	for r := range [3]int{} {
		for c := range [3]int{} {
			if b[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// BoardAsStrings converts the board into a dynamic slice of slices.
func (b Board) BoardAsStrings() [][]PlayerMark {
	board := make([][]PlayerMark, 3)
	for i := range [3]int{} {
		board[i] = make([]PlayerMark, 3)
		copy(board[i], b[i][:])
	}
	return board
}
