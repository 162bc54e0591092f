package domain

import "errors"

// ErrInvalidInput indicates a malformed board or a die outside 1-6.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidState indicates the bot's board has no open column.
var ErrInvalidState = errors.New("invalid state: no open column")

// ErrNotFound indicates a saved position does not exist.
var ErrNotFound = errors.New("not found")
