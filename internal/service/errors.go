package service

import "errors"

// Categorías de error del flujo de login. Se envuelven con fmt.Errorf("%w")
// para clasificar con errors.Is.
var (
	ErrInput        = errors.New("invalid input")
	ErrUpstreamAuth = errors.New("upstream auth error")
	ErrStorage      = errors.New("storage error")
	ErrConfig       = errors.New("config error")
)

var (
	ErrJWTInvalid   = errors.New("jwt invalid")
	ErrJWTExpired   = errors.New("jwt expired")
	ErrUserNotFound = errors.New("user not found")
)
