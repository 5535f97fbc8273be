package logger

import "errors"

var (
	ErrInvalidFormat = errors.New("logger: invalid format")
	ErrInvalidLevel  = errors.New("logger: invalid level")
	ErrOpenFile      = errors.New("logger: failed to open log file")
)
