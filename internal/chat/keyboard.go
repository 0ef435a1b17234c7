package chat

import (
	"ctchen222/tictactoe-bot/internal/game"
	"ctchen222/tictactoe-bot/pkg/proto"
	"errors"
	"fmt"
)

const freeCell = "."

var errBadCellData = errors.New("malformed cell data")

// boardKeyboard renders the board as 3 rows of 3 buttons; each button
// carries its coordinates as "rc".
func boardKeyboard(board game.Board) [][]proto.Button {
	keyboard := make([][]proto.Button, 3)
	for r := range [3]int{} {
		keyboard[r] = make([]proto.Button, 3)
		for c := range [3]int{} {
			text := string(board[r][c])
			if text == "" {
				text = freeCell
			}
			keyboard[r][c] = proto.Button{Text: text, Data: cellData(r, c)}
		}
	}
	return keyboard
}

func levelKeyboard() [][]proto.Button {
	return [][]proto.Button{
		{{Text: "Easy", Data: string(game.Easy)}},
		{{Text: "Hard", Data: string(game.Hard)}},
	}
}

func sideKeyboard() [][]proto.Button {
	return [][]proto.Button{
		{{Text: string(game.PlayerX), Data: string(game.PlayerX)}},
		{{Text: string(game.PlayerO), Data: string(game.PlayerO)}},
	}
}

func cellData(row, col int) string {
	return fmt.Sprintf("%d%d", row, col)
}

// parseCell decodes "rc" button data. Range checks are left to the board.
func parseCell(data string) (row, col int, err error) {
	if len(data) != 2 || data[0] < '0' || data[0] > '9' || data[1] < '0' || data[1] > '9' {
		return 0, 0, fmt.Errorf("%w: %q", errBadCellData, data)
	}
	return int(data[0] - '0'), int(data[1] - '0'), nil
}
