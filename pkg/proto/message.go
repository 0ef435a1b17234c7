package proto

import "ctchen222/tictactoe-bot/internal/game"

const (
	UpdateCommand  = "command"
	UpdateCallback = "callback"
)

// Update is one user action sent by a chat client: a slash command or a
// pressed keyboard button.
type Update struct {
	ID      string `json:"id,omitempty" validate:"omitempty,uuid"`
	Type    string `json:"type" validate:"required,oneof=command callback"`
	Command string `json:"command,omitempty" validate:"required_if=Type command,command"`
	Data    string `json:"data,omitempty" validate:"required_if=Type callback,max=8"`
}

// Button is one key of an inline keyboard.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Reply is the bot's answer to an update.
type Reply struct {
	ChatID   string              `json:"chat_id"`
	ReplyTo  string              `json:"reply_to,omitempty"`
	Text     string              `json:"text"`
	Keyboard [][]Button          `json:"keyboard,omitempty"`
	Board    [][]game.PlayerMark `json:"board,omitempty"`
	Finished bool                `json:"finished,omitempty"`
	Error    string              `json:"error,omitempty"`
}
