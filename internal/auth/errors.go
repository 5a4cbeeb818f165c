package auth

import "errors"

var (
	ErrInvalidInput  = errors.New("auth: invalid input")
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrSessionSecret = errors.New("auth: session secret too short")
)
