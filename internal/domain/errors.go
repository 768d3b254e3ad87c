package domain

import "errors"

var (
	ErrDecoding        = errors.New("decoding error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrEncoding        = errors.New("encoding error")
	ErrNotImplemented  = errors.New("not implemented")
	ErrValidation      = errors.New("configuration validation failed")
	ErrUnknownHash     = errors.New("unknown hash algorithm")
)
