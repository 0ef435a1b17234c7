package models

// GuestLoginResponse is returned to a new anonymous chat client.
type GuestLoginResponse struct {
	ChatID string `json:"chat_id"`
	Token  string `json:"token"`
}
