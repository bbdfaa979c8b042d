package listener

import "errors"

var (
	ErrSessionNotFound = errors.New("listener session not found")
)
