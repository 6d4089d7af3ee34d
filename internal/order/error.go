package order

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid order input")
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("cannot access others' orders")
	ErrInvalidState  = errors.New("order can no longer be cancelled")
)
