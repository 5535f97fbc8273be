package binder

import "errors"

var (
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")
	ErrInvalidTarget      = errors.New("binder: target must be a non-nil pointer to struct")
)
