package service

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrClientNotFound  = errors.New("client not found")
	ErrAccountNotFound = errors.New("account not found")
)
