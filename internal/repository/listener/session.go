package listener

import "time"

type Session struct {
	ID           string `redis:"id"`
	State        string `redis:"state"`
	Source       string `redis:"source"`
	FallbackUsed bool   `redis:"fallback_used"`
	Prompt       string `redis:"prompt"`
	UpdatedAt    int64  `redis:"updated_at"`
}

type SetSessionParams struct {
	ID           string
	State        string
	Source       string
	FallbackUsed bool
	Prompt       string
	UpdatedAt    time.Time
}
