package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCannotCancelPaid   = errors.New("paid orders cannot be cancelled")
	ErrNoGatewayOrder     = errors.New("order has no gateway order")
	ErrStatusConflict     = errors.New("order status changed concurrently")
)
