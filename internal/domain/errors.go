package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrCommitted           = errors.New("order already committed")
	ErrPersistence         = errors.New("persistence failure")
	ErrRendering           = errors.New("rendering failure")
	ErrIO                  = errors.New("io failure")
)
