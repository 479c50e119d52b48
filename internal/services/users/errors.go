package users

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrContentNotFound = errors.New("content not found")
)
