package hutch

import "errors"

var (
	// ErrNotFound is returned when a file, directory, or user is not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when credentials do not verify
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNameTaken is returned when registering an already-known username
	ErrNameTaken = errors.New("username taken")
)
