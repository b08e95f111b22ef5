package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("not a member of this organization")
	ErrInvalidInput   = errors.New("invalid input")
	ErrQuotaExceeded  = errors.New("daily AI call limit reached")
	ErrNothingToScore = errors.New("organization has no reviews yet")
)
