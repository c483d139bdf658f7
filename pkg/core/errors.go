package core

import "errors"

// Common errors.
var (
	ErrInputNotFound     = errors.New("input not found")
	ErrUnsupportedTarget = errors.New("unsupported output target")
	ErrOutputConflict    = errors.New("explicit output cannot be shared by multiple inputs")
	ErrNoInputs          = errors.New("no input matched")
	ErrUnsupportedFormat = errors.New("unsupported dump format")
)
