package chat

import (
	"ctchen222/tictactoe-bot/internal/game"
	"fmt"
)

const (
	textChooseLevel = "Choose the bot's level:"
	textChooseSide  = "Choose your side:"
	textDraw        = "Draw!"
	textCellTaken   = "That cell is taken, pick a free one"
	textGameOver    = "Game over. Send /start to play again."
	textSendStart   = "Send /start to begin a new game."
	textHelp        = "/start - new game\n/end - stop the current game\n/help - this message"
)

func textGameStarted(level game.Difficulty, side game.PlayerMark) string {
	return fmt.Sprintf("Bot's level: %s. You chose %s. %s", level, side, textYourTurn(side))
}

func textYourTurn(side game.PlayerMark) string {
	return fmt.Sprintf("%s (your) turn! Please, put %s to the free place", side, side)
}

func textPlayerWon(side game.PlayerMark) string {
	return fmt.Sprintf("%s (your) won!", side)
}

func textBotWon(side game.PlayerMark) string {
	return fmt.Sprintf("%s (bot) won!", side)
}
