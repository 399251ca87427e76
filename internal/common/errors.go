package common

import "errors"

var (
	// repository errors
	ErrorNotFound = errors.New("not found")

	// service errors
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrVersionConflict = errors.New("version conflict")
	ErrorAlreadyExists = errors.New("already exists")

	// entry validation
	ErrorIncorrectMetadata = errors.New("incorrect metadata")

	ErrInvalidToken = errors.New("invalid token")

	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
