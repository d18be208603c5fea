package server

import "errors"

// Wire-level status codes sent to the offending client.
var (
	ErrStatusInvalidMove      = "INVALID_MOVE"
	ErrStatusWrongTurn        = "WRONG_TURN"
	ErrStatusMalformedRequest = "MALFORMED_REQUEST"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrRoomNotFound  = errors.New("room not found")
	ErrInGame        = errors.New("already in a game")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUsernameTaken = errors.New("username already exists")
	ErrBadCredential = errors.New("invalid username or password")
	ErrUserNotFound  = errors.New("user not found")
)
