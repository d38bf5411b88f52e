package errors

import (
	"errors"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrWeakPassword           = errors.New("password does not meet the minimum policy")
	ErrEmailAlreadyInUse      = errors.New("email already in use")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountBlocked         = errors.New("account is blocked")
	ErrTooManyLoginAttempts   = errors.New("too many failed login attempts")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenInvalid           = errors.New("token invalid")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrUserNotFound           = errors.New("user not found")
)
