package errors

import "errors"

var (
	ErrMissingOrderID       = errors.New("missing order id")
	ErrUnreachableRecipient = errors.New("recipient not on channel")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
)
