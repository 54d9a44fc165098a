package chat

import "errors"

var (
	ErrMissingCredentials = errors.New("missing room id or token")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrInvalidInput       = errors.New("invalid message input")
)
