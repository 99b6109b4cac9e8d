package services

import "errors"

// Error taxonomy shared by every service. Controllers map these onto HTTP
// statuses; services wrap them with fmt.Errorf("%w: detail").
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)
