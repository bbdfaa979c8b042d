package listener

import "github.com/truevoice/server/internal/player"

type Session struct {
	ID string `json:"id"`
	player.Player
	UpdatedAt int64 `json:"updated_at"`
}

type ConnectResponse struct {
	SessionToken string  `json:"session_token"`
	Session      Session `json:"session"`
	Resumed      bool    `json:"resumed"`
}

type UpdateResponse struct {
	Session    Session           `json:"session"`
	Transition player.Transition `json:"transition"`
}
