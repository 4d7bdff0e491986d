package errors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNumberCollision    = errors.New("generated number already in use")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrForbidden          = errors.New("forbidden")
	ErrBillAlreadyPaid    = errors.New("bill already paid")
	ErrPaymentDeclined    = errors.New("payment declined")
)
